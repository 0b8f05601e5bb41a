package scheduler

import (
	"context"
	"testing"
)

func TestAddCronRegistersJobInfo(t *testing.T) {
	s, err := NewScheduler()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer s.Stop()

	err = s.AddCron("invitations.purge_expired", "15 3 * * *", func(context.Context) {}, context.Background())
	if err != nil {
		t.Fatalf("add cron: %v", err)
	}

	infos := s.GetJobInfos()
	if len(infos) != 1 {
		t.Fatalf("got %d jobs, want 1", len(infos))
	}

	info := infos[0]
	if info.Name != "invitations.purge_expired" || info.CronExpr != "15 3 * * *" {
		t.Errorf("info = %+v", info)
	}

	if info.Status != StatusScheduled {
		t.Errorf("status = %s, want %s", info.Status, StatusScheduled)
	}
}

func TestAddCronRejectsDuplicateName(t *testing.T) {
	s, err := NewScheduler()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer s.Stop()

	noop := func(context.Context) {}

	if err := s.AddCron("agents.offline_sweep", "* * * * *", noop, context.Background()); err != nil {
		t.Fatalf("first add: %v", err)
	}

	if err := s.AddCron("agents.offline_sweep", "* * * * *", noop, context.Background()); err == nil {
		t.Fatal("duplicate name accepted")
	}
}

func TestRemoveJobCleansState(t *testing.T) {
	s, err := NewScheduler()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer s.Stop()

	if err := s.AddCron("invitations.purge_expired", "15 3 * * *", func(context.Context) {}, context.Background()); err != nil {
		t.Fatalf("add cron: %v", err)
	}

	job := s.jobs["invitations.purge_expired"]
	if err := s.RemoveJob(job.ID()); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if len(s.GetJobInfos()) != 0 {
		t.Errorf("job infos not cleaned: %+v", s.GetJobInfos())
	}

	if _, exists := s.jobs["invitations.purge_expired"]; exists {
		t.Error("jobs map still holds removed job")
	}

	if _, exists := s.jobIDs[job.ID()]; exists {
		t.Error("jobIDs map still holds removed job")
	}
}

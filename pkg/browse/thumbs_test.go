package browse_test

import (
	"testing"

	"github.com/u2giants/popdam2/pkg/browse"
)

func TestPresentThumbnailKnownStates(t *testing.T) {
	cases := []struct {
		name       string
		status     string
		url        string
		errMsg     string
		wantKind   browse.ThumbKind
		inProgress bool
	}{
		{"pending", browse.ThumbStatusPending, "", "", browse.ThumbPending, true},
		{"queued", browse.ThumbStatusQueued, "", "", browse.ThumbQueued, true},
		{"generating", browse.ThumbStatusGenerating, "", "", browse.ThumbGenerating, true},
		{"done", browse.ThumbStatusDone, "https://s3/thumb.webp", "", browse.ThumbReady, false},
		{"error", browse.ThumbStatusError, "", "render crashed", browse.ThumbFailed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := browse.PresentThumbnail(tc.status, tc.url, tc.errMsg)
			if got.Kind != tc.wantKind {
				t.Fatalf("kind = %v, want %v", got.Kind, tc.wantKind)
			}

			if got.InProgress != tc.inProgress {
				t.Fatalf("inProgress = %v, want %v", got.InProgress, tc.inProgress)
			}
		})
	}
}

func TestPresentThumbnailUnknownStatusFallsBack(t *testing.T) {
	// 未来新增的状态值不能让旧客户端崩溃或误报
	for _, status := range []string{"", "archived", "DONE", "pending "} {
		got := browse.PresentThumbnail(status, "https://s3/x.webp", "boom")
		if got.Kind != browse.ThumbNone {
			t.Errorf("status %q: kind = %v, want ThumbNone", status, got.Kind)
		}

		if got.InProgress || got.URL != "" || got.Err != "" {
			t.Errorf("status %q: fallback leaked fields: %+v", status, got)
		}
	}
}

func TestPresentThumbnailDoneWithoutURL(t *testing.T) {
	got := browse.PresentThumbnail(browse.ThumbStatusDone, "", "")
	if got.Kind != browse.ThumbNone {
		t.Fatalf("done without url: kind = %v, want ThumbNone", got.Kind)
	}
}

func TestPresentThumbnailErrorDefaultsMessage(t *testing.T) {
	got := browse.PresentThumbnail(browse.ThumbStatusError, "", "")
	if got.Err != "unknown" {
		t.Fatalf("err = %q, want %q", got.Err, "unknown")
	}

	got = browse.PresentThumbnail(browse.ThumbStatusError, "", "font missing")
	if got.Err != "font missing" {
		t.Fatalf("err = %q, want original message", got.Err)
	}
}

func TestPresentThumbnailReadyCarriesURL(t *testing.T) {
	got := browse.PresentThumbnail(browse.ThumbStatusDone, "https://s3/a1.webp", "")
	if got.URL != "https://s3/a1.webp" {
		t.Fatalf("url = %q", got.URL)
	}
}

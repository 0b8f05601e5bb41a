package rule_test

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/u2giants/popdam2/pkg/rule"
)

// listQuery 资产列表查询里实际使用的一组 rule 标签.
type listQuery struct {
	Search   string `rule:"omitempty,max=255"`
	FileType string `rule:"omitempty,oneof=psd ai unknown"`
	Page     int    `rule:"omitempty,min=1"`
	Limit    int    `rule:"omitempty,min=1,max=48"`
	SortBy   string `rule:"omitempty,oneof=created_at updated_at file_name file_size_bytes"`
}

func TestEngineSingleton(t *testing.T) {
	if rule.Engine() == nil {
		t.Fatal("Engine() returned nil")
	}

	if rule.Engine() != rule.Engine() {
		t.Error("Engine() should return the same instance")
	}
}

func TestValidateStructListQuery(t *testing.T) {
	cases := []struct {
		name    string
		query   listQuery
		wantErr bool
	}{
		{"empty query passes", listQuery{}, false},
		{"full valid query", listQuery{Search: "mermaid", FileType: "psd", Page: 2, Limit: 48, SortBy: "updated_at"}, false},
		{"unknown file type", listQuery{FileType: "sketch"}, true},
		{"limit above page size", listQuery{Limit: 49}, true},
		{"negative page rejected", listQuery{Page: -1}, true},
		{"sort field outside whitelist", listQuery{SortBy: "thumbnail_status"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := rule.ValidateStruct(tc.query)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateStruct(%+v) err = %v, wantErr %v", tc.query, err, tc.wantErr)
			}
		})
	}
}

func TestValidateVarInvitationEmail(t *testing.T) {
	if err := rule.ValidateVar("artist@studio.example.com", "required,email"); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}

	if err := rule.ValidateVar("not-an-email", "required,email"); err == nil {
		t.Error("invalid email accepted")
	}

	if err := rule.ValidateVar(0, "min=1"); err == nil {
		t.Error("zero accepted where min=1 required")
	}
}

func TestRegisterValidationShareRelativePath(t *testing.T) {
	// 扫描上报的相对路径不允许绝对路径或目录回溯
	err := rule.RegisterValidation("relpath", func(fl validator.FieldLevel) bool {
		p, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		return !strings.HasPrefix(p, "/") && !strings.Contains(p, "..")
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := rule.ValidateVar("characters/mermaid/hero.psd", "relpath"); err != nil {
		t.Errorf("valid relative path rejected: %v", err)
	}

	if err := rule.ValidateVar("../etc/passwd", "relpath"); err == nil {
		t.Error("traversal path accepted")
	}
}

func TestRegisterAliasAssetName(t *testing.T) {
	rule.RegisterAlias("asset_name", "required,min=1,max=255")

	if err := rule.ValidateVar("hero.psd", "asset_name"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}

	if err := rule.ValidateVar("", "asset_name"); err == nil {
		t.Error("empty name accepted")
	}
}

package service

import (
	"errors"
	"testing"

	"github.com/u2giants/popdam2/pkg/browse"
	ctxPkg "github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/model"
	"github.com/u2giants/popdam2/pkg/internal/types"
)

func TestTaxonomyPropertyLifecycle(t *testing.T) {
	ctx := newTestEnv(t)
	tax := NewTaxonomyService(ctx)
	assets := NewAssetService(ctx)

	created, err := tax.CreateProperty(ctx, &types.CreatePropertyRequest{Name: "Bayou", Studio: "Studio B"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err = tax.CreateProperty(ctx, &types.CreatePropertyRequest{Name: "Atlantis"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	props, err := assets.ListProperties(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	// 名称升序
	if len(props) != 2 || props[0].Name != "Atlantis" || props[1].Name != "Bayou" {
		t.Fatalf("props = %+v", props)
	}

	updated, err := tax.UpdateProperty(ctx, created.ID, &types.UpdatePropertyRequest{Name: "Bayou II", Studio: "Studio B"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Name != "Bayou II" {
		t.Fatalf("updated = %+v", updated)
	}

	if err := tax.DeleteProperty(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := tax.DeleteProperty(ctx, created.ID); !errors.Is(err, browse.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestTaxonomyDeletePropertyDetachesCharacters(t *testing.T) {
	ctx := newTestEnv(t)
	tax := NewTaxonomyService(ctx)

	prop, err := tax.CreateProperty(ctx, &types.CreatePropertyRequest{Name: "Atlantis"})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}

	char, err := tax.CreateCharacter(ctx, &types.CreateCharacterRequest{Name: "Kida", PropertyID: prop.ID})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}

	if err := tax.DeleteProperty(ctx, prop.ID); err != nil {
		t.Fatalf("delete property: %v", err)
	}

	var row model.Character
	if err := ctxPkg.GetDBClient(ctx).GetDB().First(&row, "id = ?", char.ID).Error; err != nil {
		t.Fatalf("load character: %v", err)
	}

	if row.PropertyID != nil {
		t.Fatalf("character still attached to %v", *row.PropertyID)
	}
}

func TestTaxonomyCharactersKeyedByProperty(t *testing.T) {
	ctx := newTestEnv(t)
	tax := NewTaxonomyService(ctx)
	assets := NewAssetService(ctx)

	prop, err := tax.CreateProperty(ctx, &types.CreatePropertyRequest{Name: "Atlantis"})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}

	if _, err = tax.CreateCharacter(ctx, &types.CreateCharacterRequest{Name: "Kida", Aliases: []string{"Princess Kida"}, PropertyID: prop.ID}); err != nil {
		t.Fatalf("create character: %v", err)
	}

	if _, err = tax.CreateCharacter(ctx, &types.CreateCharacterRequest{Name: "Axel"}); err != nil {
		t.Fatalf("create loose character: %v", err)
	}

	all, err := assets.ListCharacters(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}

	if len(all) != 2 || all[0].Name != "Axel" || all[1].Name != "Kida" {
		t.Fatalf("all = %+v", all)
	}

	scoped, err := assets.ListCharacters(ctx, prop.ID)
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}

	if len(scoped) != 1 || scoped[0].Name != "Kida" {
		t.Fatalf("scoped = %+v", scoped)
	}

	if len(scoped[0].Aliases) != 1 || scoped[0].Aliases[0] != "Princess Kida" {
		t.Fatalf("aliases = %+v", scoped[0].Aliases)
	}
}

func TestTaxonomyUpdateCharacterReplacesFields(t *testing.T) {
	ctx := newTestEnv(t)
	tax := NewTaxonomyService(ctx)

	char, err := tax.CreateCharacter(ctx, &types.CreateCharacterRequest{Name: "Kida", Aliases: []string{"K"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := tax.UpdateCharacter(ctx, char.ID, &types.UpdateCharacterRequest{Name: "Kidagakash", Aliases: nil})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Name != "Kidagakash" || len(updated.Aliases) != 0 {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := tax.UpdateCharacter(ctx, "missing", &types.UpdateCharacterRequest{Name: "x"}); !errors.Is(err, browse.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

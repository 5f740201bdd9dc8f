package docservice

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/index"
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/testutil"
)

const (
	gatewayPath     = "PRJ-api/001-PRJ-api-Gateway.md"
	authPath        = "PRJ-deployment/001-PRJ-deployment-Auth.md"
	placeholderPath = "PRJ-deployment/002-reserved.md"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	_, store := testutil.TestRoot(t, map[string]string{
		gatewayPath:     "# Gateway\n\n[auth](" + authPath + ")\n[gone](PRJ-api/missing.md)\n",
		authPath:        "# Auth\n\n[back](" + gatewayPath + ")\n",
		placeholderPath: "Content coming soon\n",
	})
	db := testutil.TestDB(t)
	layout := index.Layout{
		ProjectCode: "PRJ",
		Categories:  []models.Category{models.CategoryAPI, models.CategoryDeployment, models.CategoryTesting},
	}
	if err := index.Sync(db, store, layout, testutil.Logger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	return NewService(store, db, layout)
}

func TestModules(t *testing.T) {
	svc := setupService(t)
	mods, err := svc.Modules(context.Background())
	if err != nil {
		t.Fatalf("Modules: %v", err)
	}
	if len(mods) != 3 {
		t.Fatalf("modules = %+v", mods)
	}
	want := []ModuleSummary{
		{Name: "PRJ-api", Category: models.CategoryAPI, Present: true, Stats: models.ModuleStats{Total: 1, Completed: 1}},
		{Name: "PRJ-deployment", Category: models.CategoryDeployment, Present: true, Stats: models.ModuleStats{Total: 2, Placeholder: 1, Template: 1, Completed: 1}},
		{Name: "PRJ-testing", Category: models.CategoryTesting},
	}
	for i := range want {
		if mods[i] != want[i] {
			t.Errorf("modules[%d] = %+v, want %+v", i, mods[i], want[i])
		}
	}
}

func TestDocuments(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	docs, err := svc.Documents(ctx, "PRJ-deployment")
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 2 || docs[0].Path != authPath {
		t.Fatalf("documents = %+v", docs)
	}

	empty, err := svc.Documents(ctx, "PRJ-testing")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("empty module = %v, %v", empty, err)
	}

	if _, err := svc.Documents(ctx, "PRJ-unknown"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown module err = %v", err)
	}
}

func TestDocument(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	d, err := svc.Document(ctx, gatewayPath)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if d.Title != "Gateway" || !d.Completed || d.Module != "PRJ-api" {
		t.Errorf("detail = %+v", d)
	}
	if len(d.References) != 2 {
		t.Errorf("references = %v", d.References)
	}
	if len(d.Backlinks) != 1 || d.Backlinks[0] != authPath {
		t.Errorf("backlinks = %v", d.Backlinks)
	}
	if d.Checksum == "" {
		t.Error("expected indexed checksum")
	}

	p, err := svc.Document(ctx, placeholderPath)
	if err != nil {
		t.Fatalf("Document placeholder: %v", err)
	}
	if !p.IsPlaceholder || !p.IsTemplate || p.Completed {
		t.Errorf("placeholder detail = %+v", p)
	}

	for _, missing := range []string{"PRJ-api/nope.md", "outside.md", "../etc/passwd"} {
		if _, err := svc.Document(ctx, missing); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Document(%q) err = %v, want ErrNotFound", missing, err)
		}
	}
}

func TestIssues(t *testing.T) {
	svc := setupService(t)
	issues, err := svc.Issues(context.Background())
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}
	if len(issues.BrokenReferences) != 1 {
		t.Fatalf("broken = %+v", issues.BrokenReferences)
	}
	br := issues.BrokenReferences[0]
	if br.Document != gatewayPath || br.Reference != "PRJ-api/missing.md" {
		t.Errorf("broken = %+v", br)
	}
	if len(issues.OrphanDocuments) != 1 || issues.OrphanDocuments[0] != placeholderPath {
		t.Errorf("orphans = %v", issues.OrphanDocuments)
	}
	if issues.Total() != 2 {
		t.Errorf("total = %d, want 2", issues.Total())
	}
}

func TestGraph(t *testing.T) {
	svc := setupService(t)
	g, err := svc.Graph(context.Background())
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(g.Nodes) != 3 {
		t.Errorf("nodes = %v", g.Nodes)
	}
	if len(g.Edges) != 3 {
		t.Errorf("edges = %+v", g.Edges)
	}
}

func TestSearchAndBacklinks(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	res, err := svc.Search(ctx, "Gateway", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) == 0 {
		t.Error("expected search hits for Gateway")
	}

	bl, err := svc.Backlinks(ctx, "PRJ-api/missing.md")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 1 || bl[0] != gatewayPath {
		t.Errorf("backlinks = %v", bl)
	}
}

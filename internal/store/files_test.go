package store

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talentwire/ingest/internal/classify"
	"github.com/talentwire/ingest/internal/model"
)

func testRepo(t *testing.T) *FileRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	repo := NewFileRepository(db)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo
}

func testRecord(id string) *FileRecord {
	return &FileRecord{
		ID:       id,
		OwnerID:  "user-1",
		Filename: "resume.pdf",
		Type:     model.FileTypeCV,
		URL:      "https://storage.example/resume.pdf",
		Text:     "John Smith",
		Pages: []model.Page{{
			PageNumber: 1,
			Content:    "John Smith",
			Tables:     []model.Table{{{{Text: "Header 1"}, {Text: "Header 2"}}}},
		}},
		Paragraphs: []string{"John Smith"},
		Analysis: &classify.DocumentAnalysis{
			DocumentType: model.FileTypeCV,
			CV:           &classify.CVStructure{Skills: []string{"Go"}},
		},
	}
}

func TestUpsertRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	stored, err := repo.Upsert(ctx, testRecord("11111111-1111-4111-8111-111111111111"))
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if stored.ID != "11111111-1111-4111-8111-111111111111" {
		t.Errorf("id = %q", stored.ID)
	}
	if len(stored.Pages) != 1 || len(stored.Pages[0].Tables) != 1 {
		t.Fatalf("pages lost in round trip: %+v", stored.Pages)
	}
	if stored.Pages[0].Tables[0][0][0].Text != "Header 1" {
		t.Errorf("table cell = %q", stored.Pages[0].Tables[0][0][0].Text)
	}
	if stored.Analysis == nil || stored.Analysis.CV == nil || stored.Analysis.CV.Skills[0] != "Go" {
		t.Errorf("analysis lost in round trip: %+v", stored.Analysis)
	}
}

func TestUpsertKeepsIdentityAcrossReprocessing(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, testRecord("11111111-1111-4111-8111-111111111111"))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Same owner and filename with a new id and body overwrites the body but
	// keeps the original identity.
	second := testRecord("22222222-2222-4222-8222-222222222222")
	second.Text = "John Smith, updated"
	second.URL = "https://storage.example/resume-v2.pdf"
	stored, err := repo.Upsert(ctx, second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if stored.ID != first.ID {
		t.Errorf("id changed across reprocessing: %q -> %q", first.ID, stored.ID)
	}
	if stored.Text != "John Smith, updated" {
		t.Errorf("text = %q, want updated body", stored.Text)
	}
	if stored.URL != "https://storage.example/resume-v2.pdf" {
		t.Errorf("url = %q, want updated url", stored.URL)
	}

	all, err := repo.ListByOwner(ctx, "user-1", nil)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("records = %d, want exactly 1", len(all))
	}
}

func TestUpsertGeneratesID(t *testing.T) {
	repo := testRepo(t)
	rec := testRecord("")
	stored, err := repo.Upsert(context.Background(), rec)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if stored.ID == "" {
		t.Error("expected generated id")
	}
}

func TestFindMissing(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	rec, err := repo.FindByOwnerAndName(ctx, "user-1", "nope.pdf")
	if err != nil {
		t.Fatalf("FindByOwnerAndName: %v", err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil", rec)
	}

	rec, err = repo.FindByID(ctx, "user-1", "33333333-3333-4333-8333-333333333333")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil", rec)
	}
}

func TestListByOwnerFiltersType(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	cv := testRecord("11111111-1111-4111-8111-111111111111")
	if _, err := repo.Upsert(ctx, cv); err != nil {
		t.Fatalf("upsert cv: %v", err)
	}
	jd := testRecord("22222222-2222-4222-8222-222222222222")
	jd.Filename = "role.pdf"
	jd.Type = model.FileTypeJD
	jd.Analysis = nil
	if _, err := repo.Upsert(ctx, jd); err != nil {
		t.Fatalf("upsert jd: %v", err)
	}
	other := testRecord("33333333-3333-4333-8333-333333333333")
	other.OwnerID = "user-2"
	if _, err := repo.Upsert(ctx, other); err != nil {
		t.Fatalf("upsert other owner: %v", err)
	}

	all, err := repo.ListByOwner(ctx, "user-1", nil)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("records = %d, want 2", len(all))
	}

	jdType := model.FileTypeJD
	jds, err := repo.ListByOwner(ctx, "user-1", &jdType)
	if err != nil {
		t.Fatalf("ListByOwner filtered: %v", err)
	}
	if len(jds) != 1 || jds[0].Filename != "role.pdf" {
		t.Errorf("filtered = %+v, want only role.pdf", jds)
	}
}

package brief

import (
	"testing"

	"github.com/carelinkhq/carechat-core/internal/models"
	"github.com/carelinkhq/carechat-core/internal/pkg/pagination"
	"github.com/carelinkhq/carechat-core/internal/testutil"
	"github.com/google/uuid"
)

func TestUpsertTwiceKeepsOneRecord(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()
	conversationID := uuid.NewString()

	first, err := svc.Upsert(scope, "user-1", conversationID, "initial summary")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := svc.Upsert(scope, "user-1", conversationID, "revised summary")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected same record, got %s then %s", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&models.BriefModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stored record, got %d", count)
	}

	var stored models.BriefModel
	if err := db.First(&stored, "id = ?", first.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Brief != "revised summary" {
		t.Fatalf("expected second call's text, got %q", stored.Brief)
	}
}

func TestUpsertIsScopedPerConversation(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()

	if _, err := svc.Upsert(scope, "user-1", uuid.NewString(), "a"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := svc.Upsert(scope, "user-1", uuid.NewString(), "b"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var count int64
	if err := db.Model(&models.BriefModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 records for distinct conversations, got %d", count)
	}
}

func TestSearchFiltersByUserIDSet(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()

	for _, user := range []string{"a", "b", "c"} {
		if _, err := svc.Upsert(scope, user, uuid.NewString(), "text for "+user); err != nil {
			t.Fatalf("seed %s: %v", user, err)
		}
	}

	result, err := svc.Search(scope, SearchQuery{
		UserIDs: "a,b",
		Query:   pagination.Query{Page: 1, Limit: 20, SortBy: "-updated_at"},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Total)
	}
	for _, row := range result.Data {
		if row.UserID != "a" && row.UserID != "b" {
			t.Fatalf("unexpected user in result: %q", row.UserID)
		}
	}
}

func TestSearchUserIDWinsOverUserIDs(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()

	for _, user := range []string{"a", "b"} {
		if _, err := svc.Upsert(scope, user, uuid.NewString(), "x"); err != nil {
			t.Fatalf("seed %s: %v", user, err)
		}
	}

	result, err := svc.Search(scope, SearchQuery{
		UserID:  "a",
		UserIDs: "a,b",
		Query:   pagination.Query{Page: 1, Limit: 20},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected exact user_id filter to win, got total %d", result.Total)
	}
	if len(result.Data) != 1 || result.Data[0].UserID != "a" {
		t.Fatalf("expected only user a, got %+v", result.Data)
	}
}

func TestSearchExcludesOtherApps(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()
	other := testutil.Scope()

	if _, err := svc.Upsert(scope, "a", uuid.NewString(), "mine"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Upsert(other, "a", uuid.NewString(), "theirs"); err != nil {
		t.Fatalf("seed other: %v", err)
	}

	result, err := svc.Search(scope, SearchQuery{Query: pagination.Query{Page: 1, Limit: 20}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected only own app's briefs, got total %d", result.Total)
	}
	if result.Data[0].Brief != "mine" {
		t.Fatalf("wrong row: %q", result.Data[0].Brief)
	}
}

func TestSearchAttachesNicknames(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()

	if _, err := svc.Upsert(scope, "with-profile", uuid.NewString(), "x"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Upsert(scope, "no-profile", uuid.NewString(), "y"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	profile := models.PatientProfileModel{
		TenantID:  scope.TenantID,
		AppID:     scope.AppID,
		EndUserID: "with-profile",
		Nickname:  testutil.StrPtr("老王"),
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	result, err := svc.Search(scope, SearchQuery{Query: pagination.Query{Page: 1, Limit: 20}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	byUser := make(map[string]*string, len(result.Data))
	for _, row := range result.Data {
		byUser[row.UserID] = row.Nickname
	}
	if byUser["with-profile"] == nil || *byUser["with-profile"] != "老王" {
		t.Fatalf("expected nickname for with-profile, got %v", byUser["with-profile"])
	}
	if byUser["no-profile"] != nil {
		t.Fatalf("expected null nickname for no-profile, got %q", *byUser["no-profile"])
	}
}

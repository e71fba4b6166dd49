package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/carelinkhq/carechat-core/internal/models"
	"github.com/carelinkhq/carechat-core/internal/pkg/pagination"
	"github.com/carelinkhq/carechat-core/internal/testutil"
	"github.com/google/uuid"
)

func TestGetOrNoneReturnsNilWhenAbsent(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)

	record, err := svc.GetOrNone(testutil.Scope(), "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil for absent profile, got %+v", record)
	}
}

func TestUpsertFullReplaceNullsOmittedFields(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()

	_, err := svc.Upsert(scope, "user-1", UpsertProfileDTO{
		Nickname: testutil.StrPtr("小张"),
		Emotion:  testutil.StrPtr("焦虑"),
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Second payload omits emotion; full-replace must null it out.
	_, err = svc.Upsert(scope, "user-1", UpsertProfileDTO{
		Nickname: testutil.StrPtr("小张"),
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	record, err := svc.GetOrNone(scope, "user-1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if record == nil {
		t.Fatal("profile missing after upsert")
	}
	if record.Emotion != nil {
		t.Fatalf("expected emotion nulled by full replace, got %q", *record.Emotion)
	}
	if record.Nickname == nil || *record.Nickname != "小张" {
		t.Fatalf("nickname lost: %v", record.Nickname)
	}

	var count int64
	if err := db.Model(&models.PatientProfileModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 profile, got %d", count)
	}
}

func TestSearchCalmMatchesNullAndEmpty(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()

	seed := []struct {
		user    string
		emotion *string
	}{
		{"null-emotion", nil},
		{"empty-emotion", testutil.StrPtr("")},
		{"calm-zh", testutil.StrPtr("平静")},
		{"anxious", testutil.StrPtr("焦虑")},
	}
	for _, s := range seed {
		if _, err := svc.Upsert(scope, s.user, UpsertProfileDTO{Emotion: s.emotion}); err != nil {
			t.Fatalf("seed %s: %v", s.user, err)
		}
	}

	result, err := svc.Search(scope, SearchQuery{
		Emotion: "平静",
		Query:   pagination.Query{Page: 1, Limit: 20},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected calm filter to match null, empty and 平静 (3 rows), got %d", result.Total)
	}
	for _, row := range result.Data {
		if row.EndUserID == "anxious" {
			t.Fatal("calm filter must not match 焦虑")
		}
	}

	// A non-calm filter stays exact.
	result, err = svc.Search(scope, SearchQuery{
		Emotion: "焦虑",
		Query:   pagination.Query{Page: 1, Limit: 20},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected exactly the 焦虑 row, got %d", result.Total)
	}
}

func TestSearchNicknameSubstringIsCaseInsensitive(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()

	if _, err := svc.Upsert(scope, "u1", UpsertProfileDTO{Nickname: testutil.StrPtr("Grandpa Joe")}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Upsert(scope, "u2", UpsertProfileDTO{Nickname: testutil.StrPtr("Aunt May")}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result, err := svc.Search(scope, SearchQuery{
		Nickname: "grandpa",
		Query:    pagination.Query{Page: 1, Limit: 20},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 1 || result.Data[0].EndUserID != "u1" {
		t.Fatalf("expected the Grandpa Joe row, got %+v", result.Data)
	}
}

func TestSearchMonthFilter(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()

	for _, user := range []string{"nov", "dec"} {
		if _, err := svc.Upsert(scope, user, UpsertProfileDTO{}); err != nil {
			t.Fatalf("seed %s: %v", user, err)
		}
	}
	backdate := func(user string, ts time.Time) {
		err := db.Model(&models.PatientProfileModel{}).
			Where("end_user_id = ?", user).
			UpdateColumn("created_at", ts).Error
		if err != nil {
			t.Fatalf("backdate %s: %v", user, err)
		}
	}
	backdate("nov", time.Date(2025, 11, 15, 10, 0, 0, 0, time.Local))
	backdate("dec", time.Date(2025, 12, 1, 0, 0, 0, 0, time.Local))

	result, err := svc.Search(scope, SearchQuery{
		Month: "202511",
		Query: pagination.Query{Page: 1, Limit: 20},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 1 || result.Data[0].EndUserID != "nov" {
		t.Fatalf("expected only the November profile, got %+v", result.Data)
	}
}

func TestSearchRejectsMalformedMonth(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)

	for _, month := range []string{"2025-13", "abc123", "202513", "20251"} {
		_, err := svc.Search(testutil.Scope(), SearchQuery{
			Month: month,
			Query: pagination.Query{Page: 1, Limit: 20},
		})
		if !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("month %q: expected ErrInvalidMonth, got %v", month, err)
		}
	}
}

func TestSearchUserIDsWinOverUserID(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()

	for _, user := range []string{"a", "b", "c"} {
		if _, err := svc.Upsert(scope, user, UpsertProfileDTO{}); err != nil {
			t.Fatalf("seed %s: %v", user, err)
		}
	}

	result, err := svc.Search(scope, SearchQuery{
		UserID:  "c",
		UserIDs: "a,b",
		Query:   pagination.Query{Page: 1, Limit: 20},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected the set filter to win, got total %d", result.Total)
	}
}

func TestSearchAttachesLatestBrief(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()

	if _, err := svc.Upsert(scope, "u1", UpsertProfileDTO{}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if _, err := svc.Upsert(scope, "u2", UpsertProfileDTO{}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	oldBrief := models.BriefModel{
		TenantID: scope.TenantID, AppID: scope.AppID,
		UserID: "u1", ConversationID: uuid.NewString(), Brief: "older",
	}
	newBrief := models.BriefModel{
		TenantID: scope.TenantID, AppID: scope.AppID,
		UserID: "u1", ConversationID: uuid.NewString(), Brief: "newest",
	}
	for _, b := range []*models.BriefModel{&oldBrief, &newBrief} {
		if err := db.Create(b).Error; err != nil {
			t.Fatalf("seed brief: %v", err)
		}
	}
	// Push the older brief's updated_at clearly into the past.
	err := db.Model(&models.BriefModel{}).
		Where("id = ?", oldBrief.ID).
		UpdateColumn("updated_at", time.Now().Add(-time.Hour)).Error
	if err != nil {
		t.Fatalf("backdate brief: %v", err)
	}

	result, err := svc.Search(scope, SearchQuery{Query: pagination.Query{Page: 1, Limit: 20}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	for _, row := range result.Data {
		switch row.EndUserID {
		case "u1":
			if row.LatestBrief == nil || *row.LatestBrief != "newest" {
				t.Fatalf("expected newest brief attached, got %v", row.LatestBrief)
			}
			if row.LatestBriefConversationID == nil || *row.LatestBriefConversationID != newBrief.ConversationID {
				t.Fatalf("wrong conversation id: %v", row.LatestBriefConversationID)
			}
		case "u2":
			if row.LatestBrief != nil || row.LatestBriefConversationID != nil {
				t.Fatalf("expected null enrichment for u2, got %v / %v", row.LatestBrief, row.LatestBriefConversationID)
			}
		}
	}
	if result.Profile != nil {
		t.Fatal("profile key must stay null in search responses")
	}
}

func TestSearchPaginationEnvelope(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(db)
	scope := testutil.Scope()

	for i := 0; i < 25; i++ {
		if _, err := svc.Upsert(scope, uuid.NewString(), UpsertProfileDTO{}); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	result, err := svc.Search(scope, SearchQuery{
		Query: pagination.Query{Page: 3, Limit: 10, SortBy: "-updated_at"},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 25 {
		t.Fatalf("expected total 25, got %d", result.Total)
	}
	if len(result.Data) != 5 {
		t.Fatalf("expected 5 rows on page 3, got %d", len(result.Data))
	}
	if result.HasMore {
		t.Fatal("expected has_more=false on the final page")
	}
}

func TestParseMonthRange(t *testing.T) {
	start, end, err := parseMonthRange("202511")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	wantStart := time.Date(2025, 11, 1, 0, 0, 0, 0, time.Local)
	wantEnd := time.Date(2025, 12, 1, 0, 0, 0, 0, time.Local)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Fatalf("got [%v, %v), want [%v, %v)", start, end, wantStart, wantEnd)
	}

	if _, _, err := parseMonthRange("202500"); err == nil {
		t.Fatal("month 00 must be rejected")
	}
}

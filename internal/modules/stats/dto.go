package stats

// SummaryResult is the per-app aggregate report. The month-over-month rate
// compares the current partial month against an equally partial slice of the
// previous month, and reports 0.0 when the previous slice is empty.
type SummaryResult struct {
	TotalConversations             int64            `json:"total_conversations"`
	CurrentMonthConversations      int64            `json:"current_month_conversations"`
	LastMonthConversations         int64            `json:"last_month_conversations"`
	ConversationMonthOverMonthRate float64          `json:"conversation_month_over_month_rate"`
	EmotionAlertCount              int64            `json:"emotion_alert_count"`
	EmotionAlertUserIDs            []string         `json:"emotion_alert_user_ids"`
	NewProfilesCurrentMonth        int64            `json:"new_profiles_current_month"`
	BriefSummary                   map[string]int64 `json:"brief_summary"`
	EmotionDistribution            map[string]int64 `json:"emotion_distribution"`
}

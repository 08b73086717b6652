package dto

// DayBucket is one calendar-day count within a stats window. Buckets
// are dense: a day with no activity still appears with zero counts.
type DayBucket struct {
	Date   string `json:"date"`
	Count  int64  `json:"count"`
	Read   int64  `json:"read"`
	Unread int64  `json:"unread"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type UserEngagement struct {
	TotalRecipients int64 `json:"total_recipients"`
	ReadCount       int64 `json:"read_count"`
	ReadRatePercent int   `json:"read_rate_percent"`
}

// NotificationStatsResponse rolls activity up three ways: totals,
// per-day buckets and per-kind counts. ByKind always carries all four
// kinds so a consumer never has to treat a missing key as zero.
type NotificationStatsResponse struct {
	WindowDays     int              `json:"window_days"`
	Total          int64            `json:"total"`
	Read           int64            `json:"read"`
	Unread         int64            `json:"unread"`
	ByDay          []DayBucket      `json:"by_day"`
	ByKind         map[string]int64 `json:"by_kind"`
	TopTypes       []TypeCount      `json:"top_types"`
	UserEngagement UserEngagement   `json:"user_engagement"`
}

type PlatformStatsResponse struct {
	TotalNotifications int64 `json:"total_notifications"`
	UnreadTotal        int64 `json:"unread_total"`
	PropertiesCreated  int64 `json:"properties_created"`
	WindowDays         int   `json:"window_days"`
}

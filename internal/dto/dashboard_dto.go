package dto

// AdminDashboardStatsDTO backs the admin dashboard summary widgets.
type AdminDashboardStatsDTO struct {
	TotalExams        int64 `json:"totalExams"`
	ActiveExams       int64 `json:"activeExams"`
	TotalStudents     int64 `json:"totalStudents"`
	RecentSubmissions int64 `json:"recentSubmissions"`
}

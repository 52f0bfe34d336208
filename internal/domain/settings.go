package domain

// Settings is the single global appearance record. The row id is fixed at 1
// and the record is created during provisioning, never deleted.
type Settings struct {
	DashboardTitle   string  `json:"dashboard_title"`
	DashboardBgImage string  `json:"dashboard_bg_image"`
	ColsPerRow       int     `json:"cols_per_row"`
	ColumnWidth      int     `json:"column_width"`
	CardHeight       int     `json:"card_height"`
	ColumnBgColor    string  `json:"column_bg_color"`
	ColumnBgOpacity  float64 `json:"column_bg_opacity"`
	CardBgColor      string  `json:"card_bg_color"`
	CardBgOpacity    float64 `json:"card_bg_opacity"`
}

// SettingsPatch carries a partial settings update. Nil means "leave untouched".
type SettingsPatch struct {
	DashboardTitle   *string
	DashboardBgImage *string
	ColsPerRow       *int
	ColumnWidth      *int
	CardHeight       *int
	ColumnBgColor    *string
	ColumnBgOpacity  *float64
	CardBgColor      *string
	CardBgOpacity    *float64
}

// Empty reports whether the patch carries no fields at all.
func (p *SettingsPatch) Empty() bool {
	return p.DashboardTitle == nil &&
		p.DashboardBgImage == nil &&
		p.ColsPerRow == nil &&
		p.ColumnWidth == nil &&
		p.CardHeight == nil &&
		p.ColumnBgColor == nil &&
		p.ColumnBgOpacity == nil &&
		p.CardBgColor == nil &&
		p.CardBgOpacity == nil
}

// DefaultSettings returns the record inserted at provisioning time.
func DefaultSettings() Settings {
	return Settings{
		DashboardTitle:   "Start Dashboard",
		DashboardBgImage: "",
		ColsPerRow:       3,
		ColumnWidth:      320,
		CardHeight:       0,
		ColumnBgColor:    "#ffffff",
		ColumnBgOpacity:  1.0,
		CardBgColor:      "#ffffff",
		CardBgOpacity:    1.0,
	}
}

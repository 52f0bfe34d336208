package validation

import (
	"sort"

	"github.com/startdash-dev/startdash/internal/domain"
	apperrors "github.com/startdash-dev/startdash/internal/errors"
)

// settingsFields is the closed set of keys accepted by the settings update
// payload. Anything else rejects the whole payload.
var settingsFields = map[string]struct{}{
	"dashboard_title":    {},
	"dashboard_bg_image": {},
	"cols_per_row":       {},
	"column_width":       {},
	"card_height":        {},
	"column_bg_color":    {},
	"column_bg_opacity":  {},
	"card_bg_color":      {},
	"card_bg_opacity":    {},
}

// SettingsPatch validates a partial settings payload against the field
// whitelist and bounds, returning a patch with only the supplied keys set.
func SettingsPatch(data map[string]any) (*domain.SettingsPatch, error) {
	var unknown []string
	for key := range data {
		if _, ok := settingsFields[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &apperrors.ErrorWithStatusCode{
			Message:    "unsupported settings fields",
			StatusCode: 400,
			Details:    map[string]any{"fields": unknown},
		}
	}

	patch := &domain.SettingsPatch{}

	title, err := OptionalString(data, "dashboard_title", 120)
	if err != nil {
		return nil, err
	}
	if title != nil {
		if *title == "" {
			// clearing the title falls back to the provisioning default
			def := domain.DefaultSettings().DashboardTitle
			title = &def
		}
		patch.DashboardTitle = title
	}

	if patch.DashboardBgImage, err = OptionalURL(data, "dashboard_bg_image", 2048); err != nil {
		return nil, err
	}

	colsPerRow, err := OptionalInt(data, "cols_per_row", 1, 10)
	if err != nil {
		return nil, err
	}
	patch.ColsPerRow = intPtr(colsPerRow)

	columnWidth, err := OptionalInt(data, "column_width", 200, 1200)
	if err != nil {
		return nil, err
	}
	patch.ColumnWidth = intPtr(columnWidth)

	cardHeight, err := OptionalInt(data, "card_height", 0, 2000)
	if err != nil {
		return nil, err
	}
	patch.CardHeight = intPtr(cardHeight)

	if patch.ColumnBgColor, err = OptionalHexColor(data, "column_bg_color"); err != nil {
		return nil, err
	}
	if patch.ColumnBgOpacity, err = OptionalFloat(data, "column_bg_opacity", 0.0, 1.0); err != nil {
		return nil, err
	}
	if patch.CardBgColor, err = OptionalHexColor(data, "card_bg_color"); err != nil {
		return nil, err
	}
	if patch.CardBgOpacity, err = OptionalFloat(data, "card_bg_opacity", 0.0, 1.0); err != nil {
		return nil, err
	}

	if patch.Empty() {
		return nil, apperrors.Validation("no fields provided")
	}
	return patch, nil
}

func intPtr(value *int64) *int {
	if value == nil {
		return nil
	}
	v := int(*value)
	return &v
}

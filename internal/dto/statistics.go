package dto

import "github.com/Rello/domus-sub002/internal/core/domain"

// StatisticsColumnMeta describes one column of a statistics table for
// presentation. Computation ignores these hints.
type StatisticsColumnMeta struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
	Format  string `json:"format,omitempty"`
	Unit    string `json:"unit,omitempty"`
}

// StatisticsResponse is the evaluated statistics table of one unit: column
// metadata once, then one value map per year, newest year first.
type StatisticsResponse struct {
	UnitID  string                 `json:"unitID"`
	Set     string                 `json:"set"`
	Columns []StatisticsColumnMeta `json:"columns"`
	Rows    []map[string]any       `json:"rows"`
}

// ToStatisticsColumnMeta converts column definitions to presentation
// metadata in the given language.
func ToStatisticsColumnMeta(defs []domain.ColumnDef, lang string) []StatisticsColumnMeta {
	meta := make([]StatisticsColumnMeta, len(defs))
	for i, def := range defs {
		label := def.LabelDe
		if lang == "en" && def.LabelEn != "" {
			label = def.LabelEn
		}
		meta[i] = StatisticsColumnMeta{
			Key:     def.Key,
			Label:   label,
			Visible: def.Visible,
			Format:  def.Format,
			Unit:    def.Unit,
		}
	}
	return meta
}

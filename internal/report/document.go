// Package report строит табличный отчёт по записям журнала.
// Раскладка и стили описываются декларативно (Document), а кодирование
// в конкретный формат вынесено в Encoder.
package report

// Style — декларативное описание оформления ячейки. Значение сравнимо и
// используется кодировщиком как ключ кэша стилей.
type Style struct {
	Bold      bool
	FontSize  float64
	FontColor string // "#RRGGBB"
	FillColor string // "#RRGGBB", сплошная заливка
	Border    bool   // тонкая рамка со всех сторон
	HAlign    string
	VAlign    string
}

func (s Style) IsZero() bool {
	return s == Style{}
}

// Cell — значение ячейки; пустая строка означает отсутствие значения
type Cell struct {
	Value string
	Style Style
}

type Row struct {
	Cells []Cell
}

// Merge объединяет ячейки строки Row (с 1) от FromCol до ToCol (с 1)
type Merge struct {
	Row     int
	FromCol int
	ToCol   int
}

type Column struct {
	Width float64
}

type Document struct {
	SheetName string
	Columns   []Column
	Rows      []Row
	Merges    []Merge
}

// Width — число колонок данных
func (d *Document) Width() int {
	return len(d.Columns)
}

// mergedValue возвращает значение, которое видно в ячейке (row, col) с учётом объединений
func (d *Document) mergedValue(row, col int) (string, bool) {
	for _, m := range d.Merges {
		if m.Row == row && col >= m.FromCol && col <= m.ToCol {
			cells := d.Rows[row-1].Cells
			if m.FromCol-1 < len(cells) {
				return cells[m.FromCol-1].Value, true
			}
			return "", true
		}
	}
	return "", false
}

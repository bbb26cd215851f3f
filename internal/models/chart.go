package models

// ChartState is a chart instance bound to one rendering surface.
type ChartState struct {
	Target     string    `json:"target"`
	Generation uint64    `json:"generation"` // bumped each time the surface is recreated
	Labels     []string  `json:"labels"`
	Values     []float64 `json:"values"`
	Timestamps []int64   `json:"timestamps"`
	Symbol     string    `json:"symbol"`
	Range      Range     `json:"range"`
}

// ChartFrame is an immutable snapshot of a rendered chart.
type ChartFrame struct {
	Target     string    `json:"target"`
	Symbol     string    `json:"symbol"`
	Range      Range     `json:"range"`
	Labels     []string  `json:"labels"`
	Values     []float64 `json:"values"`
	Timestamps []int64   `json:"timestamps"`
	Peak       float64   `json:"peak"`
	Low        float64   `json:"low"`
}

// ChartDisplay holds the auxiliary display fields written alongside a chart.
type ChartDisplay struct {
	Peak     string `json:"peak"`
	Low      string `json:"low"`
	Selected string `json:"selected"`
}

// Package models defines the JSON documents exchanged by the chebgo
// command-line tool and HTTP server.
package models

// Piece describes one interval of a constructed function.
type Piece struct {
	Lo       float64 `json:"lo"`
	Hi       float64 `json:"hi"`
	Length   int     `json:"length"`
	Happy    bool    `json:"happy"`
	Epslevel float64 `json:"epslevel"`
	// Coefficients holds the leading coefficients per column when requested.
	// For the Fourier basis these are the real parts, ordered by increasing
	// wave number, and Imag holds the imaginary parts.
	Coefficients [][]float64 `json:"coefficients,omitempty"`
	Imag         [][]float64 `json:"imag,omitempty"`
}

// Extremum is a location and the value of one column there.
type Extremum struct {
	X     float64 `json:"x"`
	Value float64 `json:"value"`
}

// Evaluation holds the values of every column at X.
type Evaluation struct {
	X      float64   `json:"x"`
	Values []float64 `json:"values"`
}

// Report summarizes a construction.
type Report struct {
	Function    string    `json:"function"`
	Description string    `json:"description,omitempty"`
	Tech        string    `json:"tech"`
	Strategy    string    `json:"strategy"`
	Domain      []float64 `json:"domain"`
	Columns     int       `json:"columns"`
	Resolved    bool      `json:"resolved"`
	// Length is the total number of coefficients per column.
	Length   int     `json:"length"`
	Vscale   float64 `json:"vscale"`
	Hscale   float64 `json:"hscale"`
	Epslevel float64 `json:"epslevel"`
	// Samples is the number of operator evaluations the construction made.
	Samples     int          `json:"samples"`
	Pieces      []Piece      `json:"pieces"`
	Integral    []float64    `json:"integral"`
	Roots       [][]float64  `json:"roots"`
	Max         []Extremum   `json:"max"`
	Min         []Extremum   `json:"min"`
	Evaluations []Evaluation `json:"evaluations,omitempty"`
	DurationMS  float64      `json:"duration_ms"`
	RequestID   string       `json:"request_id,omitempty"`
}

// FunctionInfo describes a catalog entry.
type FunctionInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tech        string    `json:"tech"`
	Domain      []float64 `json:"domain"`
	Columns     int       `json:"columns"`
	Splitting   bool      `json:"splitting"`
}

// StrategyInfo describes a registered happiness check and the bases it
// supports.
type StrategyInfo struct {
	Name  string   `json:"name"`
	Kinds []string `json:"kinds"`
}

// ErrorResponse is the body of every non-2xx server response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version,omitempty"`
}

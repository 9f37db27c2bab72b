package entity

// Progress is a fractional progress event emitted by long running operations.
type Progress struct {
	Stage    string
	Fraction float64
}

const (
	StageDownload   = "download"
	StageExtract    = "extract"
	StageInitialize = "initialize"
	StageDone       = "done"
)

package codec

import "fmt"

// Stage names the step of the pipeline that failed.
type Stage string

const (
	// StageEncrypt is the encryption step.
	StageEncrypt Stage = "encrypt"
	// StageCompress is the compression step.
	StageCompress Stage = "compress"
	// StageProtect is forward error correction on encode.
	StageProtect Stage = "protect"
	// StageNumericText is parsing the digit groups.
	StageNumericText Stage = "numeric-text"
	// StageCorrect is forward error correction on decode.
	StageCorrect Stage = "correct"
	// StageFraming is recovering the compressed blob from the corrected chunks.
	StageFraming Stage = "framing"
	// StageDecompress is the decompression step.
	StageDecompress Stage = "decompress"
	// StageDecrypt is the decryption step.
	StageDecrypt Stage = "decrypt"
)

// StageError reports which stage failed. It unwraps to the stage's own error.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

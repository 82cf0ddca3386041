// util/json.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

///////////////////////////////////////////////////////////////////////////
// JSON

// UnmarshalJSONBytes decodes b into out, rejecting fields that out does
// not have. Syntax and type errors are reported with the line and
// character where they were found.
func UnmarshalJSONBytes[T any](b []byte, out *T) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	err := dec.Decode(out)
	if err == nil {
		// Only a single JSON value is allowed.
		if _, terr := dec.Token(); terr != io.EOF {
			line, char := decodeOffset(b, dec.InputOffset())
			return fmt.Errorf("line %d, character %d: unexpected data after JSON value", line, char)
		}
		return nil
	}

	var serr *json.SyntaxError
	var terr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &serr):
		line, char := decodeOffset(b, serr.Offset)
		return fmt.Errorf("line %d, character %d: %w", line, char, err)

	case errors.As(err, &terr):
		line, char := decodeOffset(b, terr.Offset)
		return fmt.Errorf("line %d, character %d: %s value for %q invalid for type %s",
			line, char, terr.Value, terr.Field, terr.Type.String())

	case errors.Is(err, io.EOF):
		return errors.New("empty JSON input")

	default:
		// Unknown fields and truncated input land here.
		line, char := decodeOffset(b, dec.InputOffset())
		return fmt.Errorf("line %d, character %d: %w", line, char, err)
	}
}

// UnmarshalJSONFile reads the named file and decodes it as with
// UnmarshalJSONBytes; errors are prefixed with the filename.
func UnmarshalJSONFile[T any](filename string, out *T) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err := UnmarshalJSONBytes(b, out); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

func decodeOffset(b []byte, offset int64) (line, char int) {
	line, char = 1, 1
	for i := 0; i < int(offset) && i < len(b); i++ {
		if b[i] == '\n' {
			line++
			char = 1
		} else {
			char++
		}
	}
	return
}

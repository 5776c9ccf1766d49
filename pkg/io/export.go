package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hdlview/hdlview/pkg/view"
)

// WriteView encodes a lowered block tree as indented JSON and writes it to
// w. The encoding is the pure recursive transform described by the view
// types; no elision or renaming happens here.
func WriteView(root *view.Block, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalView returns the indented JSON encoding of a lowered block tree.
func MarshalView(root *view.Block) ([]byte, error) {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// ExportView writes a lowered block tree to a JSON file at path.
func ExportView(root *view.Block, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteView(root, f)
}

package io

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
)

// ImportArch reads a device description from path. Files ending in ".json"
// are read with [ReadJSON], everything else with [ReadText].
func ImportArch(path string) (*graph.Arch, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()

	var a *graph.Arch
	if strings.EqualFold(filepath.Ext(path), ".json") {
		a, err = ReadJSON(f)
	} else {
		a, err = ReadText(f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", filepath.Base(path))
	}
	return a, nil
}

// ExportArch writes a to path, choosing the format like [ImportArch].
func ExportArch(a *graph.Arch, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return WriteJSON(f, a)
	}
	return WriteText(f, a)
}

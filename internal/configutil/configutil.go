package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localPath turns "dir/config.json5" into "dir/config.local.json5".
func localPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// readFile decodes a json5 file into out, found is false when the file is
// missing or empty.
func readFile(name string, out any) (found bool, err error) {
	data, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(data, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}

// ReadConfig decodes the json5 file name, then applies name.local.<ext> over it
// when present. The local file is meant for untracked machine overrides.
//
// It returns os.ErrNotExist when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found, err := readFile(name, &out)
	if err != nil {
		return out, err
	}

	local := localPath(name)
	var override T
	foundLocal, err := readFile(local, &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("applied local config overrides", "file", local)
	}

	if !found && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadConfigOrDefault is ReadConfig with fallback used when no file exists.
//
// Fields the files leave at their zero value are taken from fallback, so a file
// can't set a field to zero when fallback has a non-zero default for it (ex.
// port: 0, verbose: false). Fields that need an "off" value should use a
// sentinel such as a negative number.
func ReadConfigOrDefault[T any](name string, fallback T) (T, error) {
	read, err := ReadConfig[T](name)
	if errors.Is(err, os.ErrNotExist) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	err = mergo.Merge(&read, fallback)
	if err != nil {
		return fallback, err
	}
	return read, nil
}

// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"io"
	"os"
	"path/filepath"
)

// fileProcessor handles one input. filename is "-" for stdin; index and
// total are 0 for stdin.
type fileProcessor func(r io.Reader, filename string, index, total int) error

// processFilesOrStdin runs processor over each file in args, resolved
// against workDir, or over stdin when args is empty. "-" names stdin.
func processFilesOrStdin(args []string, stdin io.Reader, workDir, cmdName string, processor fileProcessor) error {
	if len(args) == 0 {
		return processor(stdin, "-", 0, 0)
	}

	total := len(args)
	for i, file := range args {
		if file == "-" {
			if err := processor(stdin, file, i, total); err != nil {
				return err
			}
			continue
		}
		if err := processFile(file, workDir, cmdName, func(f *os.File) error {
			return processor(f, file, i, total)
		}); err != nil {
			return err
		}
	}
	return nil
}

func processFile(file, workDir, cmdName string, processor func(f *os.File) error) (err error) {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return wrapError(cmdName, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = wrapError(cmdName, closeErr)
		}
	}()

	return processor(f)
}

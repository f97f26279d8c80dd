package commands

import (
	"fmt"
	"os"
	"path/filepath"
)

// DICOMFile identifies a file queued for processing by a DICOM subcommand.
type DICOMFile struct {
	Path string
	Name string
	Size int64
}

// DICOMTag is one parsed data element, flattened for rendering.
type DICOMTag struct {
	File  string
	Tag   string
	VR    string
	Name  string
	Value string
}

// dicomPreambleLen is the 128-byte preamble plus 4-byte "DICM" prefix every
// Part 10 file starts with.
const dicomPreambleLen = 132

// listDicomFiles walks dir collecting every regular file, recursing into
// subdirectories when recursive is true.
func listDicomFiles(dir string, recursive bool) ([]DICOMFile, error) {
	var files []DICOMFile

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if recursive {
				sub, err := listDicomFiles(path, recursive)
				if err != nil {
					return nil, err
				}
				files = append(files, sub...)
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		files = append(files, DICOMFile{
			Path: path,
			Name: entry.Name(),
			Size: info.Size(),
		})
	}

	return files, nil
}

// validateDicomFile confirms path is at least long enough to hold a Part 10
// preamble and carries the "DICM" prefix at byte offset 128, the same check
// dicom.Parser.readPreamble performs during a real parse. Failing fast here
// lets a batch dump command skip non-DICOM files without tripping up the
// rest of the run.
func validateDicomFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, dicomPreambleLen)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return fmt.Errorf("%s is too short to be a DICOM Part 10 file: %w", path, err)
	}

	if string(buf[128:132]) != "DICM" {
		return fmt.Errorf("%s is missing the DICM prefix at offset 128", path)
	}

	return nil
}

// createOutputDirectory ensures dir exists, creating parents as needed.
func createOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}

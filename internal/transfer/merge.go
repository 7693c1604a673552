package transfer

import (
	"fmt"
	"io"
	"os"

	"github.com/snag-dl/snag/internal/utils"
)

// partFilePath names the temporary file holding one segment's bytes.
func partFilePath(destPath string, index int) string {
	return fmt.Sprintf("%s.part%d", destPath, index)
}

// mergeParts concatenates part files into the destination in ascending
// segment order, which is the sole mechanism re-establishing byte order from
// the independently written parts. Each part is removed right after it is
// consumed. An existing destination is overwritten.
func mergeParts(destPath string, segments int) error {
	destFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer destFile.Close()

	for i := 0; i < segments; i++ {
		partPath := partFilePath(destPath, i)
		partFile, err := os.Open(partPath)
		if err != nil {
			return fmt.Errorf("error opening segment file %s: %w", partPath, err)
		}
		_, err = io.Copy(destFile, partFile)
		partFile.Close()
		if err != nil {
			return fmt.Errorf("error copying segment data: %w", err)
		}
		os.Remove(partPath)
	}
	if err := destFile.Sync(); err != nil {
		return fmt.Errorf("error flushing output file: %w", err)
	}
	return nil
}

// cleanupParts removes every expected part file for a transfer. Deletion is
// best-effort: cleanup runs on failure paths and must not introduce a new
// failure mode.
func cleanupParts(destPath string, segments int) {
	log := utils.GetLogger("cleanup")
	for i := 0; i < segments; i++ {
		partPath := partFilePath(destPath, i)
		if err := os.Remove(partPath); err != nil && !os.IsNotExist(err) {
			log.Debug().Str("part", partPath).Err(err).Msg("could not remove part file")
		}
	}
}

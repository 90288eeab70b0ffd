package utils

import (
	"os"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

var fitsType = filetype.NewType("fits", "application/fits")

// FITS primary headers start with the "SIMPLE  =" keyword card.
var fitsMagic = []byte("SIMPLE  =")

func fitsMatcher(buf []byte) bool {
	if len(buf) < len(fitsMagic) {
		return false
	}
	for i, b := range fitsMagic {
		if buf[i] != b {
			return false
		}
	}
	return true
}

func init() {
	filetype.AddMatcher(fitsType, fitsMatcher)
}

// DetectFileType sniffs the payload type of a file on disk. Returns the MIME
// type, or an empty string if the type is unknown or the file is unreadable.
func DetectFileType(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	// 261 bytes covers every registered matcher, the FITS card included
	buf := make([]byte, 261)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return ""
	}

	kind, err := filetype.Match(buf[:n])
	if err != nil || kind == types.Unknown {
		return ""
	}
	return kind.MIME.Value
}

package tool

import (
	"fmt"
	"strings"

	"github.com/moyoez/fileuploader/types"
)

// UnknownTypePlaceholder is shown when a file declares no media type.
const UnknownTypePlaceholder = "Unknown type"

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders bytes with binary prefixes and one decimal: 1536 -> "1.5 KB".
// Zero is "0 B". Sizes past GB stay in GB.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	value := float64(bytes)
	i := 0
	for value >= 1024 && i < len(sizeUnits)-1 {
		value /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[i])
}

// FormatKB renders bytes as kilobytes with two decimals: 204800 -> "200.00 KB".
// An unknown size (-1) is "0.00 KB".
func FormatKB(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
}

// IconFor picks the row icon from the declared media type.
func IconFor(fileType string) types.Icon {
	fileType = strings.ToLower(strings.TrimSpace(fileType))
	switch {
	case strings.HasPrefix(fileType, "image/"):
		return types.IconImage
	case strings.HasPrefix(fileType, "video/"):
		return types.IconVideo
	case strings.HasPrefix(fileType, "audio/"):
		return types.IconAudio
	case fileType == "application/pdf":
		return types.IconPDF
	default:
		return types.IconFile
	}
}

// DisplayType returns the declared type or the placeholder.
func DisplayType(fileType string) string {
	if strings.TrimSpace(fileType) == "" {
		return UnknownTypePlaceholder
	}
	return fileType
}

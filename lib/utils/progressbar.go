package utils

import (
	"time"

	"github.com/schollz/progressbar/v3"
)

func NewProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total, progressOptions(
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
	)...)
}

// NewBytesProgressBar shows progress reading a file of size bytes.
func NewBytesProgressBar(size int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size, progressOptions(
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetDescription(description),
	)...)
}

func progressOptions(extra ...progressbar.Option) []progressbar.Option {
	return append([]progressbar.Option{
		progressbar.OptionThrottle(time.Second),
		progressbar.OptionSetTheme(progressbar.Theme{Saucer: "#", SaucerPadding: " ", BarStart: "|", BarEnd: "|"}),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	}, extra...)
}

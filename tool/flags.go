package tool

import (
	"flag"
	"os"

	"github.com/moyoez/fileuploader/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	return ParseFlags(flag.CommandLine, nil)
}

// ParseFlags registers the flags on fs and parses args (os.Args[1:] when args is nil).
func ParseFlags(fs *flag.FlagSet, args []string) types.Config {
	var cfg types.Config
	fs.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	fs.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	fs.StringVar(&cfg.UseEndpoint, "useEndpoint", "", "override upload endpoint")
	fs.StringVar(&cfg.UseFieldName, "useFieldName", "", "override multipart field name")
	fs.IntVar(&cfg.UsePort, "usePort", 0, "override dashboard port")
	fs.BoolVar(&cfg.Serve, "serve", false, "run the dashboard API instead of uploading the given files")
	fs.BoolVar(&cfg.Single, "single", false, "upload only the first file with the single uploader")
	fs.BoolVar(&cfg.SkipNotify, "skipNotify", false, "if true, skip unix socket notifications")
	fs.BoolVar(&cfg.ShowQRCode, "showQRCode", false, "print a QR code of the dashboard url on start")
	if args == nil {
		_ = fs.Parse(os.Args[1:])
	} else {
		_ = fs.Parse(args)
	}
	cfg.Files = fs.Args()
	return cfg
}

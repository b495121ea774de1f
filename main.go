package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/moyoez/fileuploader/api"
	"github.com/moyoez/fileuploader/api/controllers"
	"github.com/moyoez/fileuploader/api/notifyhub"
	"github.com/moyoez/fileuploader/notify"
	"github.com/moyoez/fileuploader/render"
	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/transfer"
	"github.com/moyoez/fileuploader/types"
	"github.com/moyoez/fileuploader/uploader"
)

func main() {
	cfg := tool.SetFlags()

	// initialize logger
	tool.InitLogger()
	tool.SetLogMode(cfg.Log)

	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	tool.ApplyFlags(&appCfg, cfg)
	notify.SocketPath = appCfg.NotifySocket

	client := transfer.NewClient(&appCfg)

	if cfg.Serve {
		serve(&appCfg, client, cfg.ShowQRCode)
		return
	}
	if len(cfg.Files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: fileuploader [flags] file...  |  fileuploader -serve")
		os.Exit(2)
	}
	os.Exit(uploadFiles(&appCfg, client, cfg))
}

func serve(appCfg *types.AppConfig, client *transfer.Client, showQRCode bool) {
	hub := notifyhub.New()
	notify.SetHub(hub)

	opts := uploader.Options{
		OnEvent:           notify.Sink,
		MarkFailedEntries: appCfg.MarkFailedEntries,
	}
	server := api.NewServer(appCfg, uploader.NewSingle(client, opts), uploader.NewMulti(client, opts), hub)

	if showQRCode {
		host := "127.0.0.1"
		if appCfg.AllowLan {
			if ip := tool.GetLANIPv4(); ip != "" {
				host = ip
			}
		}
		dashboard := controllers.DashboardURL(fmt.Sprintf("%s:%d", host, appCfg.Port))
		if qr, err := terminalQRCode(dashboard); err != nil {
			tool.DefaultLogger.Warnf("Failed to render QR code: %v", err)
		} else {
			fmt.Println(qr)
			fmt.Println(dashboard)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			tool.DefaultLogger.Errorf("Dashboard shutdown failed: %v", err)
		}
	}()
	if err := server.Start(); err != nil {
		tool.DefaultLogger.Fatalf("Dashboard API startup failed: %v", err)
	}
}

// uploadFiles runs the uploaders once over the CLI args and returns the exit status.
func uploadFiles(appCfg *types.AppConfig, client *transfer.Client, cfg types.Config) int {
	files := make([]types.File, 0, len(cfg.Files))
	for _, path := range cfg.Files {
		file, err := tool.FileFromPath(path)
		if err != nil {
			tool.DefaultLogger.Errorf("Skipping %s: %v", path, err)
			continue
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Single {
		single := uploader.NewSingle(client, uploader.Options{OnEvent: notify.Sink})
		single.SelectFile(files[0])
		err := single.UploadSelected(ctx)
		fmt.Print(render.Single(single.View()))
		if err != nil {
			return 1
		}
		return 0
	}

	live := render.NewLive(os.Stdout)
	var multi *uploader.Multi
	multi = uploader.NewMulti(client, uploader.Options{
		OnEvent: func(n *types.Notification) {
			switch n.Type {
			case types.NotifyTypeUploadProgress, types.NotifyTypeUploadEnd, types.NotifyTypeUploadFailed:
				live.Draw(render.Multi(multi.View(), render.DefaultBarWidth))
			}
			notify.Sink(n)
		},
		MarkFailedEntries: appCfg.MarkFailedEntries,
	})
	multi.SelectFiles(files...)
	live.Draw(render.Multi(multi.View(), render.DefaultBarWidth))
	result, err := multi.UploadAll(ctx)
	if err != nil && !errors.Is(err, uploader.ErrNothingToUpload) {
		tool.DefaultLogger.Errorf("Upload failed: %v", err)
		return 1
	}
	live.Draw(render.Multi(multi.View(), render.DefaultBarWidth))
	if result.Failed > 0 {
		return 1
	}
	return 0
}

// terminalQRCode draws the code with two characters per module.
func terminalQRCode(content string) (string, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, row := range q.Bitmap() {
		for _, dark := range row {
			if dark {
				b.WriteString("██")
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

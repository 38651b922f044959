package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
	"unicode/utf8"

	"ytcollector/domain/repository"
	youtubeclient "ytcollector/infrastructure/clients/youtube"
	"ytcollector/infrastructure/configuration"
	"ytcollector/infrastructure/filecsv"
	"ytcollector/infrastructure/logger"
	"ytcollector/infrastructure/persistence"
	"ytcollector/infrastructure/utils"
	httpHandler "ytcollector/interfaces/http"
	"ytcollector/server"
	"ytcollector/usecase"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

var collectCommand = command{
	name: "collect",
	flags: func(fs *pflag.FlagSet) {
		fs.String("urls", "", "file with one video URL per line")
		fs.Int64("quota", 0, "budget assumed for a day with no stored quota")
		fs.String("replies", string(usecase.RepliesByParent), "reply source: parent or thread")
	},
	keys: map[string]string{
		"urls":  "collector.urlsFile",
		"quota": "collector.defaultQuota",
	},
	run: runCollect,
}

var exportCommand = command{
	name: "export",
	flags: func(fs *pflag.FlagSet) {
		fs.String("out", "", "output directory")
		fs.String("style", "", "escape (backslash escapes) or quote (RFC 4180)")
		fs.String("delimiter", "", "field delimiter")
		fs.String("video", "", "only export rows of this video ID")
	},
	keys: map[string]string{
		"out":       "export.dir",
		"style":     "export.style",
		"delimiter": "export.delimiter",
	},
	run: runExport,
}

var serveCommand = command{
	name: "serve",
	flags: func(fs *pflag.FlagSet) {
		fs.Int("port", 0, "HTTP port")
	},
	keys: map[string]string{"port": "app.port"},
	run:  runServe,
}

var tokenCommand = command{
	name: "token",
	flags: func(fs *pflag.FlagSet) {
		fs.String("subject", "reader", "token subject")
		fs.Duration("ttl", 24*time.Hour, "token lifetime")
	},
	run: runToken,
}

func openStore(ctx context.Context) (*persistence.RecordStore, error) {
	db := configuration.C.Database
	store, err := persistence.OpenRecordStore(ctx, db.Driver, db.DSN)
	if err != nil {
		logger.GetLogger().WithField("driver", db.Driver).WithField("error", err).Error("Cannot open the record store")
		return nil, err
	}
	logger.GetLogger().WithField("driver", db.Driver).Info("Record store ready")
	return store, nil
}

func runCollect(ctx context.Context, fs *pflag.FlagSet) error {
	replies, _ := fs.GetString("replies")
	source := usecase.ReplySource(replies)
	if source != usecase.RepliesByParent && source != usecase.RepliesByThread {
		return fmt.Errorf("unknown reply source %q", replies)
	}

	urls := fs.Args()
	if len(urls) == 0 {
		var err error
		urls, err = utils.ReadURLFile(configuration.C.Collector.URLsFile)
		if err != nil {
			return err
		}
	}
	if len(urls) == 0 {
		return errors.New("no video URLs given")
	}

	yt := configuration.C.YouTube
	client, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{
		APIKey:       yt.APIKey,
		AccessToken:  yt.AccessToken,
		RefreshToken: yt.RefreshToken,
		ClientID:     yt.ClientID,
		ClientSecret: yt.ClientSecret,
		BaseURL:      yt.BaseURL,
		PageSize:     yt.PageSize,
	})
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	collector := usecase.NewCollectorUseCase(client, store, configuration.C.Collector.DefaultQuota).
		WithReplySource(source)
	report, err := collector.Collect(ctx, urls)
	if report != nil {
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
	}
	return err
}

func runExport(ctx context.Context, fs *pflag.FlagSet) error {
	cfg := configuration.C.Export
	style, err := filecsv.ParseStyle(cfg.Style)
	if err != nil {
		return err
	}
	comma, err := parseDelimiter(cfg.Delimiter)
	if err != nil {
		return err
	}
	videoID, _ := fs.GetString("video")

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := usecase.NewExportUseCase(store, style, comma).
		Export(ctx, cfg.Dir, repository.RecordFilter{VideoID: videoID})
	if err != nil {
		return err
	}
	logger.GetLogger().WithField("dir", cfg.Dir).WithField("rows", counts).Info("Export finished")
	return nil
}

func parseDelimiter(s string) (rune, error) {
	if s == "" {
		return ',', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '\\' || r == '"' || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

func runServe(ctx context.Context, _ *pflag.FlagSet) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := configuration.C
	style, err := filecsv.ParseStyle(cfg.Export.Style)
	if err != nil {
		return err
	}
	comma, err := parseDelimiter(cfg.Export.Delimiter)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	recordHandler := httpHandler.NewRecordHandler(
		usecase.NewRecordUseCase(store, cfg.Collector.DefaultQuota),
		usecase.NewExportUseCase(store, style, comma),
	)
	router := server.InitiateRouter(httpHandler.NewHealthHandler(store), recordHandler, cfg.App.AllowOrigins, cfg.App.SecretKey)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.GetLogger().WithFields(map[string]interface{}{
			"port": cfg.App.Port,
			"auth": cfg.App.SecretKey != "",
		}).Info("Starting application")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runToken(_ context.Context, fs *pflag.FlagSet) error {
	secretKey := configuration.C.App.SecretKey
	if secretKey == "" {
		return errors.New("app.secretKey (SECRET_KEY) is not set")
	}
	subject, _ := fs.GetString("subject")
	ttl, _ := fs.GetDuration("ttl")

	token, err := utils.IssueReaderToken(subject, utils.GetCurrentTime(), ttl, secretKey)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, token)
	return err
}

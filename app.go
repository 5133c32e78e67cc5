package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/EugenyBaz/ChekhovAgent/bot"
	"github.com/EugenyBaz/ChekhovAgent/internal/assistant"
	"github.com/EugenyBaz/ChekhovAgent/internal/botconfig_parser"
	"github.com/EugenyBaz/ChekhovAgent/internal/cache"
	"github.com/EugenyBaz/ChekhovAgent/internal/config"
	"github.com/EugenyBaz/ChekhovAgent/internal/llm"
	"github.com/EugenyBaz/ChekhovAgent/internal/logger"
	"github.com/EugenyBaz/ChekhovAgent/internal/sheets"

	"github.com/gin-gonic/gin"
	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"
	"gopkg.in/fsnotify.v1"
)

func main() {
	var (
		cnf = &config.Conf{}

		configFile   = flag.String("config", "./config/config.yml", "Usage: -config=<config_file>")
		botConfig    = flag.String("bot", "./config/bot.yml", "Usage: -bot=<botConfig_file>")
		loggerConfig = flag.String("logger", "./config/logger.yml", "Usage: -logger=<loggerConfig_file>")
		debug        = flag.Bool("debug", false, "Print debug information on stderr")
	)

	flag.Parse()

	if logFile := logger.InitLogger(*debug, *loggerConfig); logFile != nil {
		defer logFile.Close()
	}
	logger.Info("Application starting...")

	config.GetConfig(*configFile, cnf)
	cnf.RunInDebug = *debug
	if cnf.BotConfig == "" {
		cnf.BotConfig = *botConfig
	}
	if err := cnf.Validate(); err != nil {
		logger.Crit(err)
	}

	if *debug {
		logger.Debug("Server:", cnf.Server, "Sheets:", cnf.Sheets, "Dialog:", cnf.Dialog)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	texts := botconfig_parser.InitTexts(cnf.BotConfig)

	store, err := cache.NewStore(ctx, cnf.Dialog.TTL, cnf.Dialog.MaxSizeMB)
	if err != nil {
		logger.Crit("Error while init dialog store:", err)
	}
	defer store.Close()

	src, err := sheets.NewGoogleSource(ctx, cnf.Sheets.Credentials)
	if err != nil {
		logger.Crit(err)
	}
	gateway := sheets.New(src, cnf.Sheets.SpreadsheetID)

	var generator llm.Generator = llm.Mock{}
	if cnf.LLM.UseMock {
		logger.Warning("Ответы формируются шаблоном, модель не используется")
	} else {
		generator = llm.NewOpenAI(cnf.LLM.APIKey, cnf.LLM.BaseURL, cnf.LLM.Model)
	}

	svc := assistant.New(store, gateway, sheets.NewGroupClasses(gateway), generator, texts, assistant.Options{
		ClubsSheet: cnf.Sheets.ClubsSheet,
		Timeout:    cnf.LLM.Timeout,
	})
	svc.CheckJoin(ctx)

	var opts []tgbot.Option
	if cnf.Telegram.WebhookSecret != "" {
		opts = append(opts, tgbot.WithWebhookSecretToken(cnf.Telegram.WebhookSecret))
	}
	if logger.IsDebug() {
		opts = append(opts, tgbot.WithDebug())
	}
	b, err := bot.New(cnf.Telegram.Token, bot.NewHandler(svc, texts), opts...)
	if err != nil {
		logger.Crit("Error while create bot:", err)
	}

	app := gin.Default()
	app.Use(config.Inject("cnf", cnf))

	bot.InitRoutes(app, svc, store)
	if err := bot.InitHooks(ctx, app, cnf, b); err != nil {
		logger.Crit("Error while setup hook:", err)
	}

	srv := &http.Server{
		Addr:    cnf.Server.Listen,
		Handler: app,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if cnf.WebhookURL() != "" {
			b.StartWebhook(gctx)
		} else {
			b.Start(gctx)
		}
		return nil
	})

	// Следим за изменениями текстов бота.
	g.Go(func() error {
		watchTexts(gctx, texts, cnf.BotConfig)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Catch OS signal! Exiting...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		bot.DestroyHooks(shutdownCtx, cnf, b)
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("Application started")

	if err := g.Wait(); err != nil {
		logger.Crit("App forced to shutdown:", err)
	}

	logger.Info("Application stopped correctly!")
}

func watchTexts(ctx context.Context, texts *botconfig_parser.Holder, botConfig string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warning("Не удалось запустить отслеживание текстов бота:", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(botConfig)); err != nil {
		logger.Warning("Не удалось найти:", filepath.Dir(botConfig), err)
		return
	}

	target, _ := filepath.Abs(botConfig)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			logger.Debug("event:", event.String())

			name, _ := filepath.Abs(event.Name)
			if name != target {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if err := texts.UpdateTexts(botConfig); err != nil {
					logger.Warning("Не корректный конфиг бота!", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warning("error:", err)
		}
	}
}

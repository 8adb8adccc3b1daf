package main

import (
	"context"
	"flag"
	"time"

	"github.com/rbroggi/commentsvc/internal/actors/postgres"
	"github.com/rbroggi/commentsvc/internal/config"
	log "github.com/sirupsen/logrus"
)

func main() {
	attempts := flag.Int("attempts", 20, "maximum number of ping attempts")
	interval := flag.Duration("interval", time.Second, "delay between attempts")
	url := flag.String("url", "", "postgres url; defaults to the db section of the settings")
	flag.Parse()

	settings := config.DBSettings{URL: *url, Timeout: 10 * time.Second}
	if *url == "" {
		loaded, err := config.Load()
		if err != nil {
			log.WithError(err).Fatal("could not load settings")
		}
		settings = loaded.DB
	}

	connector, err := postgres.Connect(settings)
	if err != nil {
		log.WithError(err).Fatal("invalid database settings")
	}
	defer connector.Close()

	for i := 1; i <= *attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), *interval+settings.Timeout)
		err := connector.Ping(ctx)
		cancel()
		if err == nil {
			log.Info("database available")
			return
		}

		log.WithError(err).WithField("attempt", i).Info("database not yet available")
		time.Sleep(*interval)
	}
	log.Fatalf("database not available after %d attempts", *attempts)
}

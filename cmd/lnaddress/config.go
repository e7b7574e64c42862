package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jinzhu/configor"
	log "github.com/sirupsen/logrus"
)

var Configuration = struct {
	HttpProxy      string              `yaml:"http_proxy"`
	LogLevel       string              `yaml:"log_level" default:"info"`
	TimeoutSeconds int64               `yaml:"timeout_seconds" default:"30"`
	HistoryPath    string              `yaml:"history_path" default:"history.db"`
	Server         ServerConfiguration `yaml:"server"`
}{}

type ServerConfiguration struct {
	Listen       string                   `yaml:"listen" default:"0.0.0.0:5454"`
	PublicUrl    string                   `yaml:"public_url"`
	PublicUrlUrl *url.URL                 `yaml:"-"`
	DbPath       string                   `yaml:"db_path" default:"users.db"`
	MinSendable  int64                    `yaml:"min_sendable"`
	MaxSendable  int64                    `yaml:"max_sendable"`
	Lnbits       LnbitsConfiguration      `yaml:"lnbits"`
	Recipients   []RecipientConfiguration `yaml:"recipients"`
}

type LnbitsConfiguration struct {
	Url     string `yaml:"url"`
	Webhook string `yaml:"webhook"`
}

type RecipientConfiguration struct {
	Name     string `yaml:"name"`
	WalletId string `yaml:"wallet_id"`
	Inkey    string `yaml:"inkey"`
}

// loadConfig reads path (if present) and LNADDRESS_* environment variables.
func loadConfig(path string) error {
	err := configor.New(&configor.Config{ENVPrefix: "LNADDRESS", Silent: true}).Load(&Configuration, path)
	if err != nil {
		return fmt.Errorf("[loadConfig] %w", err)
	}
	if Configuration.TimeoutSeconds <= 0 {
		return fmt.Errorf("[loadConfig] timeout_seconds must be positive")
	}
	return nil
}

// checkServerConfiguration validates the settings only serve needs.
func checkServerConfiguration() error {
	if Configuration.Server.Lnbits.Url == "" {
		return fmt.Errorf("please configure a lnbits url")
	}
	if Configuration.Server.PublicUrl == "" {
		return fmt.Errorf("please configure the public url of this server")
	}
	publicUrl, err := url.Parse(strings.TrimRight(Configuration.Server.PublicUrl, "/"))
	if err != nil {
		return err
	}
	if publicUrl.Scheme == "" || publicUrl.Host == "" {
		return fmt.Errorf("public url %s must be absolute", Configuration.Server.PublicUrl)
	}
	Configuration.Server.PublicUrlUrl = publicUrl
	if Configuration.Server.Lnbits.Webhook == "" {
		log.Warnf("No lnbits webhook configured, payments will not be reported.")
	}
	return nil
}

func timeout() time.Duration {
	return time.Duration(Configuration.TimeoutSeconds) * time.Second
}

func getHttpClient() (*http.Client, error) {
	client := http.Client{}
	if Configuration.HttpProxy != "" {
		proxyUrl, err := url.Parse(Configuration.HttpProxy)
		if err != nil {
			log.Errorln(err)
			return nil, err
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyUrl)}
	}
	return &client, nil
}

// setLogger will initialize the log format
func setLogger() error {
	level, err := log.ParseLevel(Configuration.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	customFormatter := new(log.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	log.SetFormatter(customFormatter)
	return nil
}

package main

import (
	"strings"
	"sync"

	"tapedeck/internal/config"
	"tapedeck/internal/downloader"
)

type commandContext struct {
	configFlag *string
	serverFlag *string

	configOnce sync.Once
	config     config.Config
	configErr  error
}

func newCommandContext(configFlag, serverFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		serverFlag: serverFlag,
	}
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.serverFlag != nil {
			if server := strings.TrimSpace(*c.serverFlag); server != "" {
				cfg.ServerURL = server
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) client() (*downloader.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return downloader.NewClient(cfg.ServerURL)
}

func (c *commandContext) withClient(fn func(*downloader.Client) error) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	return fn(client)
}

package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "collabtext"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Category:    "Api",
			Description: `Serves the document, permission, and user REST apis.`,
		},
		{
			Action:      server.startRelay,
			Name:        "relay",
			Usage:       "Start the relay service",
			Category:    "Websocket",
			Description: `Serves live websocket connections and consumes the notification queues.`,
		},
	}

	s.app = app
}

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

var (
	serverURL     = flag.String("server", "http://localhost:8080/skill", "Skill webhook URL")
	applicationID = flag.String("app-id", "amzn1.ask.skill.simulator", "Application ID sent in the envelope")
	locale        = flag.String("locale", "ja-JP", "Request locale")
	personID      = flag.String("person", "amzn1.ask.person.simulator", "Recognized person ID (empty for no voice profile)")
	apiEndpoint   = flag.String("api-endpoint", "https://api.fe.amazonalexa.com", "Customer Profile API endpoint")
	apiToken      = flag.String("api-token", "", "API access token forwarded to the skill")
	interactive   = flag.Bool("interactive", false, "Enable interactive mode")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	// Setup logger
	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	config := &SimulatorConfig{
		ServerURL:     *serverURL,
		ApplicationID: *applicationID,
		Locale:        *locale,
		PersonID:      *personID,
		APIEndpoint:   *apiEndpoint,
		APIToken:      *apiToken,
	}

	simulator := NewSimulator(config, logger)

	if *interactive {
		runInteractiveMode(simulator)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"launch"}
	}
	if err := simulator.Run(args[0], args[1:], os.Stdout); err != nil {
		logger.Fatal("Request failed", zap.String("command", strings.Join(args, " ")), zap.Error(err))
	}
}

func runInteractiveMode(sim *Simulator) {
	fmt.Println("\nVoice Profile Skill Simulator - Interactive Mode")
	fmt.Println("================================================")
	fmt.Println("Commands:")
	fmt.Println("  launch                  - Open the skill")
	fmt.Println("  name                    - Ask for the full name")
	fmt.Println("  given                   - Ask for the given name")
	fmt.Println("  number                  - Ask for the phone number")
	fmt.Println("  help                    - Ask for help")
	fmt.Println("  stop                    - Stop the skill")
	fmt.Println("  end [reason]            - Send SessionEndedRequest")
	fmt.Println("  intent <Name>           - Send an arbitrary intent")
	fmt.Println("  person <id>|none        - Change the recognized person")
	fmt.Println("  locale <tag>            - Change the request locale")
	fmt.Println("  quit                    - Exit simulator")
	fmt.Println("")

	sim.RunInteractive(os.Stdin, os.Stdout)
}

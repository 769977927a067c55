package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
)

var errUnknownCommand = errors.New("unknown command")

// SimulatorConfig holds the device context sent with every request.
type SimulatorConfig struct {
	ServerURL     string
	ApplicationID string
	Locale        string
	PersonID      string
	APIEndpoint   string
	APIToken      string
	Timeout       time.Duration
}

// Simulator plays the voice platform against a locally running skill.
type Simulator struct {
	config    *SimulatorConfig
	client    *fasthttp.Client
	sessionID string
	userID    string
	newInSess bool
	log       *zap.Logger
}

func NewSimulator(config *SimulatorConfig, log *zap.Logger) *Simulator {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	return &Simulator{
		config: config,
		client: &fasthttp.Client{
			Name:         "voice-profile-skill-simulator",
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
		},
		userID: "amzn1.ask.account." + uuid.NewString(),
		log:    log,
	}
}

// commandRequest maps a simulator command to the request it sends.
func commandRequest(cmd string, args []string) (domain.Request, error) {
	intent := func(name string) (domain.Request, error) {
		return domain.Request{Type: domain.RequestTypeIntent, Intent: &domain.Intent{Name: name, ConfirmationStatus: "NONE"}}, nil
	}

	switch cmd {
	case "launch":
		return domain.Request{Type: domain.RequestTypeLaunch}, nil
	case "name":
		return intent(domain.IntentProfileFullName)
	case "given":
		return intent(domain.IntentProfileGivenName)
	case "number":
		return intent(domain.IntentProfileNumber)
	case "help":
		return intent(domain.IntentHelp)
	case "stop":
		return intent(domain.IntentStop)
	case "cancel":
		return intent(domain.IntentCancel)
	case "end":
		reason := "USER_INITIATED"
		if len(args) > 0 {
			reason = args[0]
		}
		return domain.Request{Type: domain.RequestTypeSessionEnded, Reason: reason}, nil
	case "intent":
		if len(args) < 1 {
			return domain.Request{}, fmt.Errorf("usage: intent <Name>")
		}
		return intent(args[0])
	default:
		return domain.Request{}, fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}

// envelope wraps req with the simulator's session and device context.
func (s *Simulator) envelope(req domain.Request) *domain.RequestEnvelope {
	if s.sessionID == "" {
		s.sessionID = "amzn1.echo-api.session." + uuid.NewString()
		s.newInSess = true
	}

	req.RequestID = "amzn1.echo-api.request." + uuid.NewString()
	req.Timestamp = time.Now().UTC().Format(time.RFC3339)
	req.Locale = s.config.Locale

	app := domain.Application{ApplicationID: s.config.ApplicationID}
	user := domain.User{UserID: s.userID}
	env := &domain.RequestEnvelope{
		Version: "1.0",
		Session: &domain.Session{
			New:         s.newInSess,
			SessionID:   s.sessionID,
			Application: app,
			User:        user,
		},
		Context: domain.Context{System: domain.System{
			Application:    app,
			User:           user,
			Device:         &domain.Device{DeviceID: "amzn1.ask.device.simulator"},
			APIEndpoint:    s.config.APIEndpoint,
			APIAccessToken: s.config.APIToken,
		}},
		Request: req,
	}
	if s.config.PersonID != "" {
		env.Context.System.Person = &domain.Person{PersonID: s.config.PersonID}
	}
	s.newInSess = false
	return env
}

// Send posts one envelope and decodes the skill's answer.
func (s *Simulator) Send(req domain.Request) (*domain.ResponseEnvelope, error) {
	env := s.envelope(req)
	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	httpReq := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(httpReq)
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(s.config.ServerURL)
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/json")
	httpReq.SetBody(body)

	s.log.Debug("Sending envelope",
		zap.String("type", req.Type),
		zap.String("request_id", env.Request.RequestID),
	)
	if err := s.client.DoTimeout(httpReq, httpResp, s.config.Timeout); err != nil {
		return nil, fmt.Errorf("post %s: %w", s.config.ServerURL, err)
	}

	if status := httpResp.StatusCode(); status != fasthttp.StatusOK {
		return nil, fmt.Errorf("skill answered %d: %s", status, httpResp.Body())
	}

	var out domain.ResponseEnvelope
	if err := json.Unmarshal(httpResp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if out.Response.EndsSession() || req.Type == domain.RequestTypeSessionEnded {
		s.sessionID = ""
	}
	return &out, nil
}

// Run sends the request for one command and prints the answer.
func (s *Simulator) Run(cmd string, args []string, w io.Writer) error {
	req, err := commandRequest(cmd, args)
	if err != nil {
		return err
	}
	out, err := s.Send(req)
	if err != nil {
		return err
	}
	printResponse(w, out.Response)
	return nil
}

func printResponse(w io.Writer, resp *domain.Response) {
	if speech := resp.SpeechText(); speech != "" {
		fmt.Fprintf(w, "Speech:   %s\n", speech)
	}
	if reprompt := resp.RepromptText(); reprompt != "" {
		fmt.Fprintf(w, "Reprompt: %s\n", reprompt)
	}
	if perms := resp.Permissions(); len(perms) > 0 {
		fmt.Fprintf(w, "Card:     %s %s\n", domain.CardTypePermissionsConsent, strings.Join(perms, ", "))
	}
	if resp.EndsSession() {
		fmt.Fprintln(w, "Session:  ended")
	}
}

func (s *Simulator) RunInteractive(in io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(w, "> ")

	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			fmt.Fprint(w, "> ")
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "person":
			if len(args) < 1 {
				fmt.Fprintln(w, "Usage: person <id>|none")
			} else if args[0] == "none" {
				s.config.PersonID = ""
				fmt.Fprintln(w, "Voice profile disabled")
			} else {
				s.config.PersonID = args[0]
				fmt.Fprintf(w, "Person set to %s\n", args[0])
			}

		case "locale":
			if len(args) < 1 {
				fmt.Fprintln(w, "Usage: locale <tag>")
			} else {
				s.config.Locale = args[0]
				fmt.Fprintf(w, "Locale set to %s\n", args[0])
			}

		case "quit", "exit":
			fmt.Fprintln(w, "Goodbye!")
			return

		default:
			if err := s.Run(cmd, args, w); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
			}
		}

		fmt.Fprint(w, "> ")
	}
}

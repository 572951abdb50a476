package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/chat"
	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/events"
	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/gemini"
	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/store"
)

const chatTopic = "chat"

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	apiKey := viper.GetString("api-key")
	if apiKey == "" {
		return errors.New("no API key configured, set --api-key or CHATDO_API_KEY")
	}
	lang := gemini.Language(viper.GetString("language"))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:     apiKey,
		ChatModel:  viper.GetString("chat-model"),
		ImageModel: viper.GetString("image-model"),
		VideoModel: viper.GetString("video-model"),
		TitleModel: viper.GetString("title-model"),
		Language:   lang,
	})
	if err != nil {
		return err
	}

	sessions, history := openStores()

	router, err := events.NewEventRouter()
	if err != nil {
		return err
	}
	defer func() {
		if err := router.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event router")
		}
	}()

	controller := chat.NewController(sessions, history, client,
		chat.WithLanguage(lang),
		chat.WithEventSink(events.NewWatermillSink(router.Publisher, chatTopic)),
	)

	router.AddHandler("render", chatTopic, renderEvent)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return router.Run(egCtx)
	})

	<-router.Running()

	repl(ctx, controller)
	cancel()

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// renderEvent prints the live stream: deltas as they arrive, then a newline
// on turn end. Errors are already part of the transcript; here they only
// interrupt the line.
func renderEvent(msg *message.Message) error {
	event, err := events.NewEventFromJSON(msg.Payload)
	if err != nil {
		return err
	}

	switch e := event.(type) {
	case *events.EventPartialCompletion:
		fmt.Print(e.Delta)
	case *events.EventFinal:
		fmt.Println()
	case *events.EventError:
		fmt.Println(e.ErrorString)
	case *events.EventStatus:
		fmt.Println(e.Text)
	}
	return nil
}

func repl(ctx context.Context, controller *chat.Controller) {
	fmt.Println("Type a message, /help for commands, /quit to leave.")
	printActive(controller)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "/") {
			reportTurn(controller.SendMessage(ctx, line, nil))
			continue
		}

		command, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch command {
		case "/quit", "/exit":
			return
		case "/help":
			printHelp()
		case "/new":
			controller.NewSession()
			printActive(controller)
		case "/sessions":
			for i, s := range controller.Sessions() {
				fmt.Printf("%2d. %s (%d messages)\n", i+1, s.Title, len(s.Messages))
			}
		case "/select":
			n, err := strconv.Atoi(rest)
			sessions := controller.Sessions()
			if err != nil || n < 1 || n > len(sessions) {
				fmt.Println("usage: /select <number from /sessions>")
				continue
			}
			if err := controller.SelectSession(sessions[n-1].ID); err != nil {
				fmt.Println(err)
				continue
			}
			printActive(controller)
			printTranscript(controller)
		case "/delete":
			if active := controller.ActiveSession(); active != nil {
				controller.DeleteSession(active.ID)
			}
			printActive(controller)
		case "/clear":
			controller.ClearAll()
			printActive(controller)
		case "/image":
			reportTurn(controller.GenerateImage(ctx, rest))
			printLastAttachment(controller)
		case "/video":
			reportTurn(controller.GenerateVideo(ctx, rest))
			printLastAttachment(controller)
		case "/attach":
			path, prompt, _ := strings.Cut(rest, " ")
			attachment, err := readAttachment(path)
			if err != nil {
				fmt.Println(err)
				continue
			}
			reportTurn(controller.SendMessage(ctx, prompt, attachment))
		default:
			fmt.Printf("unknown command %s\n", command)
		}
	}
}

func readAttachment(path string) (*gemini.ImageAttachment, error) {
	if path == "" {
		return nil, errors.New("usage: /attach <image file> [prompt]")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read attachment")
	}
	return &gemini.ImageAttachment{Data: data, MIMEType: attachmentMIMEType(path)}, nil
}

func attachmentMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}

func reportTurn(err error) {
	if err != nil {
		fmt.Println(err)
	}
}

func printActive(controller *chat.Controller) {
	if active := controller.ActiveSession(); active != nil {
		fmt.Printf("[%s]\n", active.Title)
	}
}

func printTranscript(controller *chat.Controller) {
	active := controller.ActiveSession()
	if active == nil {
		return
	}
	for _, m := range active.Messages {
		fmt.Printf("%s: %s\n", m.Sender, m.Text)
	}
}

// printLastAttachment shows where the generated media ended up; data URLs
// are truncated since they can be megabytes long.
func printLastAttachment(controller *chat.Controller) {
	active := controller.ActiveSession()
	if active == nil || len(active.Messages) == 0 {
		return
	}
	last := active.Messages[len(active.Messages)-1]
	if last.VideoURL != "" {
		fmt.Println(last.VideoURL)
	}
	if last.ImageURL != "" {
		url := last.ImageURL
		if len(url) > 80 {
			url = url[:80] + "..."
		}
		fmt.Println(url)
	}
}

func printHelp() {
	fmt.Println(`/new                 start a new session
/sessions            list sessions
/select <n>          switch to session n
/delete              delete the active session
/clear               delete all sessions
/image <prompt>      generate an image
/video <prompt>      generate a video
/attach <file> [p]   send an image with an optional prompt
/quit                leave`)
}

func openStores() (*store.SessionStore, *store.SearchHistoryStore) {
	dataDir := viper.GetString("data-dir")
	lang := gemini.Language(viper.GetString("language"))
	return store.NewSessionStore(dataDir, gemini.FallbackTitle(lang)),
		store.NewSearchHistoryStore(dataDir)
}

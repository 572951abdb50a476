package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/chat"
	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/gemini"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a single generation turn in the active session",
}

var generateImageCmd = &cobra.Command{
	Use:   "image <prompt>",
	Short: "Generate an image and append it to the active session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newOneShotController(cmd)
		if err != nil {
			return err
		}
		if err := controller.GenerateImage(cmd.Context(), strings.Join(args, " ")); err != nil {
			return err
		}
		printLastMessage(controller)
		return nil
	},
}

var generateVideoCmd = &cobra.Command{
	Use:   "video <prompt>",
	Short: "Generate a video and append it to the active session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newOneShotController(cmd)
		if err != nil {
			return err
		}
		if err := controller.GenerateVideo(cmd.Context(), strings.Join(args, " ")); err != nil {
			return err
		}
		printLastMessage(controller)
		return nil
	},
}

// printLastMessage reports the outcome of a one-shot turn; failures live in
// the transcript, so the last message is the answer either way.
func printLastMessage(controller *chat.Controller) {
	active := controller.ActiveSession()
	if active == nil || len(active.Messages) == 0 {
		return
	}
	if last := active.Messages[len(active.Messages)-1]; last.Text != "" {
		fmt.Println(last.Text)
	}
	printLastAttachment(controller)
}

// newOneShotController wires a controller without the event router; the
// one-shot commands only need the final transcript state.
func newOneShotController(cmd *cobra.Command) (*chat.Controller, error) {
	apiKey := viper.GetString("api-key")
	if apiKey == "" {
		return nil, errors.New("no API key configured, set --api-key or CHATDO_API_KEY")
	}
	lang := gemini.Language(viper.GetString("language"))

	client, err := gemini.NewClient(cmd.Context(), gemini.Config{
		APIKey:     apiKey,
		ChatModel:  viper.GetString("chat-model"),
		ImageModel: viper.GetString("image-model"),
		VideoModel: viper.GetString("video-model"),
		TitleModel: viper.GetString("title-model"),
		Language:   lang,
	})
	if err != nil {
		return nil, err
	}

	sessions, history := openStores()
	return chat.NewController(sessions, history, client, chat.WithLanguage(lang)), nil
}

func init() {
	generateCmd.AddCommand(generateImageCmd)
	generateCmd.AddCommand(generateVideoCmd)
}

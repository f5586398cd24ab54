package handlers

import (
	"go-firewatch/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sashabaranov/go-openai"
)

const chatSystemPrompt = "You are a fire safety expert assistant. Provide clear, concise and complete answers about fire safety. If the answer is long, prioritize the most important information first."

// Chat answers fire safety questions. Transcripts are not stored.
func Chat(c *gin.Context, client *openai.Client) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	resp, err := client.CreateChatCompletion(
		c.Request.Context(),
		openai.ChatCompletionRequest{
			Model: openai.GPT4oMini,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: chatSystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: req.Message,
				},
			},
			MaxTokens:   1024,
			Temperature: 0.7,
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(resp.Choices) == 0 {
		c.JSON(http.StatusOK, gin.H{"reply": "The assistant returned no text."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": resp.Choices[0].Message.Content})
}

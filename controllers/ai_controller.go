package controllers

import (
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"github.com/gin-gonic/gin"
)

type AssistantController struct {
	assistant AssistantServiceAPI
}

func NewAssistantController(assistant AssistantServiceAPI) *AssistantController {
	return &AssistantController{assistant: assistant}
}

func (ac *AssistantController) Prompt(c *gin.Context) {
	var req services.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("prompt is required"))
		return
	}
	text, err := ac.assistant.Ask(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, text, "response from ai fetched successfully")
}

package controllers

import (
	"chat-gateway/services"

	"github.com/gin-gonic/gin"
)

type WSController struct {
	Gateway *services.Gateway
}

func (wc *WSController) Handle(c *gin.Context) {
	wc.Gateway.HandleWebSocket(c)
}

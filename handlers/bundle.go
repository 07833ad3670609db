// File: lokai/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Search session endpoints
	CreateSessionHandler  gin.HandlerFunc
	GetSessionHandler     gin.HandlerFunc
	DeleteSessionHandler  gin.HandlerFunc
	SubmitQueryHandler    gin.HandlerFunc
	VoiceQueryHandler     gin.HandlerFunc
	StopVoiceHandler      gin.HandlerFunc
	SetLanguageHandler    gin.HandlerFunc
	ReportLocationHandler gin.HandlerFunc
	RefreshSessionHandler gin.HandlerFunc

	// Vendor endpoints
	ListVendorsHandler    gin.HandlerFunc
	RefreshVendorsHandler gin.HandlerFunc

	// AI endpoint
	SearchServicesHandler gin.HandlerFunc
}

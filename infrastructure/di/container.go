// Package di assembles the application graph. wire.go is the injector
// definition; wire_gen.go is the generated output checked in so builds do
// not depend on running wire.
package di

import (
	"eventbase/application/commands/bus"
	"eventbase/application/ports"
	querybus "eventbase/application/queries/bus"
	"eventbase/application/services"
	"eventbase/infrastructure/config"
	"eventbase/infrastructure/messaging"
	"eventbase/pkg/auth"
	"eventbase/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	StreamStore   ports.StreamStore
	Users         ports.UserRepository
	Notifications ports.NotificationRepository
	Dispatcher    *messaging.Dispatcher
	EventService  *services.EventService
	CommandBus    *bus.CommandBus
	QueryBus      *querybus.QueryBus
	JWTValidator  *auth.JWTValidator
	Metrics       *observability.Metrics
	Subscriptions *Subscriptions
}

// Shutdown releases the container's background resources. The dispatcher
// drains its queue before returning, so appended events still reach the
// projectors during a graceful stop.
func (c *Container) Shutdown() {
	c.Dispatcher.Close()
	if c.Logger != nil {
		c.Logger.Sync()
	}
}

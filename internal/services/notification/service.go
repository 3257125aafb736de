// Package notification sends transactional emails without blocking requests.
package notification

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"checkinn/internal/models"

	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

// Service formats and dispatches emails. Every send runs in its own
// goroutine; failures are logged and never reach the caller.
type Service struct {
	mailer Mailer
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewService(mailer Mailer, logger *zap.Logger) *Service {
	return &Service{mailer: mailer, logger: logger}
}

// Wait blocks until all in-flight sends finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Welcome(user *models.User) {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Welcome to CheckInn!</p>", html.EscapeString(user.Name))
	if user.IsPartner() {
		body += "<p>Your partner application has been received and is awaiting admin review. " +
			"You can complete your business, bank and document details in the meantime.</p>"
	}
	s.dispatch(user.Email, "Welcome to CheckInn", body)
}

func (s *Service) PartnerApproved(user *models.User) {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your partner account has been <strong>approved</strong>. "+
		"You can now list hotels and manage bookings on CheckInn.</p>", html.EscapeString(user.Name))
	s.dispatch(user.Email, "Your CheckInn partner account is approved", body)
}

func (s *Service) PartnerRejected(user *models.User, reason string) {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Unfortunately your partner application was not approved.</p>"+
		"<p><strong>Reason:</strong> %s</p>", html.EscapeString(user.Name), html.EscapeString(reason))
	s.dispatch(user.Email, "Update on your CheckInn partner application", body)
}

func (s *Service) PartnerSuspended(user *models.User) {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your partner account has been suspended. "+
		"Please contact support for more information.</p>", html.EscapeString(user.Name))
	s.dispatch(user.Email, "Your CheckInn partner account is suspended", body)
}

func (s *Service) BookingConfirmed(user *models.User, booking *models.Booking) {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your booking <strong>%s</strong> is confirmed.</p>"+
		"<p>Check-in: %s<br>Check-out: %s<br>Guests: %d<br>Total: %.2f</p>",
		html.EscapeString(user.Name), booking.Reference,
		booking.CheckIn.Format("2006-01-02"), booking.CheckOut.Format("2006-01-02"),
		booking.Guests, booking.TotalPrice)
	s.dispatch(user.Email, "Booking confirmed: "+booking.Reference, body)
}

func (s *Service) BookingCancelled(user *models.User, booking *models.Booking) {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your booking <strong>%s</strong> has been cancelled.</p>",
		html.EscapeString(user.Name), booking.Reference)
	s.dispatch(user.Email, "Booking cancelled: "+booking.Reference, body)
}

func (s *Service) dispatch(to, subject, body string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("email send panicked", zap.String("to", to), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, to, subject, body); err != nil {
			s.logger.Error("failed to send email", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
			return
		}
		s.logger.Debug("email sent", zap.String("to", to), zap.String("subject", subject))
	}()
}

package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendVerificationResult(ctx context.Context, email, name string, approved bool, note string) error {
	subject := "Your account has been verified"
	body := fmt.Sprintf("Hello %s,\n\nYour identity documents have been verified. You can now reserve vehicles.", name)
	if !approved {
		subject = "Your account verification was declined"
		body = fmt.Sprintf("Hello %s,\n\nWe could not verify your identity documents.", name)
		if note != "" {
			body += fmt.Sprintf("\n\nReason: %s", note)
		}
		body += "\n\nPlease update your profile and try again."
	}
	body += "\n\nBest regards,\nThe EV Station Team"
	return s.send(email, subject, body)
}

func (s *emailService) SendReservationConfirmation(ctx context.Context, email, name, vehicleName, pickupDate, pickupTime string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour reservation for %s is confirmed for %s at %s.\n\nPlease complete the payment to secure the vehicle.\n\nBest regards,\nThe EV Station Team",
		name, vehicleName, pickupDate, pickupTime)
	return s.send(email, "Reservation confirmed", body)
}

func (s *emailService) SendPaymentReceipt(ctx context.Context, email, name string, orderCode int64, amount float64) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received your payment of %.2f VND for order %d.\n\nYour vehicle is being held for pickup.\n\nBest regards,\nThe EV Station Team",
		name, amount, orderCode)
	return s.send(email, fmt.Sprintf("Payment received - order %d", orderCode), body)
}

func (s *emailService) SendCheckinReceipt(ctx context.Context, email, name, vehicleName string, totalAmount float64) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nThank you for returning %s. The total fare for your trip is %.2f VND.\n\nWe hope to see you again.\n\nBest regards,\nThe EV Station Team",
		name, vehicleName, totalAmount)
	return s.send(email, "Trip receipt", body)
}

func (s *emailService) SendOverdueNotice(ctx context.Context, email, name, vehicleName, dueDate string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour rental of %s was due back on %s. Please return the vehicle to a station as soon as possible.\n\nLate time is billed at the hourly rate.\n\nBest regards,\nThe EV Station Team",
		name, vehicleName, dueDate)
	return s.send(email, "Vehicle return overdue", body)
}

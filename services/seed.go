package services

import (
	"context"
	"fmt"

	"github.com/maddreams/cleaning-site/models"
	"github.com/maddreams/cleaning-site/store"
	"github.com/maddreams/cleaning-site/utils"
)

var (
	demoAppointments = []models.Appointment{
		{Time: "10:00 AM, Aug 10", ClientName: "John Doe", TypeOfService: "Deep Cleaning", CleanerAssigned: "Alice"},
		{Time: "02:00 PM, Aug 12", ClientName: "Jane Smith", TypeOfService: "Office Cleaning", CleanerAssigned: "Bob"},
	}
	demoClients = []models.Client{
		{Name: "John Doe", Address: "123 Main St", ContactNumber: "555-1234"},
		{Name: "Jane Smith", Address: "456 Oak Ave", ContactNumber: "555-5678"},
	}
	demoComplaints = []models.Complaint{
		{SenderName: "Customer A", SenderEmail: "a@example.com", Message: "The cleaner was late."},
		{SenderName: "Customer B", SenderEmail: "b@example.com", Message: "Great service!"},
	}
)

// SeedDemoData fills each empty store with a couple of sample records. Stores
// that already hold data are left alone.
func SeedDemoData(
	ctx context.Context,
	appointments store.RecordStore[models.Appointment],
	clients store.RecordStore[models.Client],
	complaints store.RecordStore[models.Complaint],
) error {
	n, err := seed(ctx, appointments, demoAppointments)
	if err != nil {
		return fmt.Errorf("seed appointments: %w", err)
	}
	utils.InfoLogger.Printf("Seeded %d appointments", n)

	if n, err = seed(ctx, clients, demoClients); err != nil {
		return fmt.Errorf("seed clients: %w", err)
	}
	utils.InfoLogger.Printf("Seeded %d clients", n)

	if n, err = seed(ctx, complaints, demoComplaints); err != nil {
		return fmt.Errorf("seed complaints: %w", err)
	}
	utils.InfoLogger.Printf("Seeded %d complaints", n)
	return nil
}

func seed[T any](ctx context.Context, s store.RecordStore[T], recs []T) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, rec := range recs {
		if _, err := s.Create(ctx, rec); err != nil {
			return 0, err
		}
	}
	return len(recs), nil
}

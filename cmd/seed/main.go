package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"courier/internal/config"
	"courier/internal/database"
	"courier/internal/domain"
	"courier/internal/pkg/logger"
	"courier/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	lg := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db, lg); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	for _, table := range []string{"feedbacks", "payments", "booking_status_events", "bookings", "customers"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("cleanup %s: %v", table, err)
		}
	}

	ctx := context.Background()
	customers := repository.NewCustomerRepository(db)
	bookings := repository.NewBookingRepository(db)

	// ================== ACCOUNTS ==================
	log.Println("Creating accounts...")

	officerHash, _ := bcrypt.GenerateFromPassword([]byte("officer123"), bcrypt.DefaultCost)
	officer := &domain.Customer{
		UniqueID:     domain.NewUniqueID(domain.RoleOfficer),
		Name:         "Desk Officer",
		Email:        "officer@expressparcel.in",
		PasswordHash: string(officerHash),
		CountryCode:  "+91",
		MobileNumber: "9000000001",
		Address:      "No. 45, Brigade Road, Bangalore",
		UpdatesVia:   "EMAIL",
		Role:         domain.RoleOfficer,
	}
	if err := customers.Create(ctx, officer); err != nil {
		log.Fatal("create officer:", err)
	}
	log.Printf("Officer created: %s / officer123 (login id %s)", officer.Email, officer.UniqueID)

	customerHash, _ := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
	customer := &domain.Customer{
		UniqueID:     domain.NewUniqueID(domain.RoleCustomer),
		Name:         "Asha Rao",
		Email:        "asha@example.com",
		PasswordHash: string(customerHash),
		CountryCode:  "+91",
		MobileNumber: "9876543210",
		Address:      "12 Brigade Road, Bangalore",
		UpdatesVia:   "BOTH",
		Role:         domain.RoleCustomer,
	}
	if err := customers.Create(ctx, customer); err != nil {
		log.Fatal("create customer:", err)
	}
	log.Printf("Customer created: %s / customer123 (login id %s)", customer.Email, customer.UniqueID)

	// ================== BOOKINGS ==================
	log.Println("Creating sample booking...")
	pickup := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	b := &domain.Booking{
		BookingID:           domain.NewBookingID(),
		CustomerID:          customer.ID,
		ReceiverName:        "Meera Iyer",
		ReceiverAddress:     "14 Residency Road, Bangalore",
		ReceiverPin:         "560025",
		ReceiverMobile:      "9876500000",
		WeightInGram:        1200,
		ContentsDescription: "Books",
		DeliveryType:        domain.DeliveryExpress,
		PackingPreference:   domain.PackingBasic,
		PickupTime:          pickup,
		DropoffTime:         pickup.Add(4 * time.Hour),
		ServiceCost:         domain.ServiceCost(domain.DeliveryExpress, domain.PackingBasic),
		ParcelStatus:        domain.ParcelNew,
		CreatedBy:           customer.ID,
	}
	if err := bookings.Create(ctx, b); err != nil {
		log.Fatal("create booking:", err)
	}
	if err := bookings.AppendEvent(ctx, &domain.BookingStatusEvent{
		BookingID: b.BookingID,
		ToStatus:  domain.ParcelNew,
		ActorID:   customer.ID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		log.Fatal("create booking event:", err)
	}
	log.Printf("Booking %s created for %s", b.BookingID, customer.Email)

	log.Println("Seed completed!")
}

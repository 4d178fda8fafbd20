package main

import (
	"log"
	"os"
	"time"

	"property-card-be/internal/entity"
	"property-card-be/internal/model"
	"property-card-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Seeds a development database with one resident and a spread of card states
// so the scheduled jobs have material to chew on.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	userId := uuid.New()
	buildingId := uuid.New()

	unit := model.Unit{
		Id:              uuid.New(),
		BuildingId:      &buildingId,
		ApartmentNumber: "12A",
		BuildingName:    "Sunrise Tower",
	}
	if err := db.Create(&unit).Error; err != nil {
		log.Fatalf("Error: Failed to seed unit: %v", err)
	}

	resident := model.Resident{
		Id:       uuid.New(),
		UserId:   userId,
		UnitId:   &unit.Id,
		FullName: "Dev Resident",
		Email:    "dev.resident@example.com",
	}
	if err := db.Create(&resident).Error; err != nil {
		log.Fatalf("Error: Failed to seed resident: %v", err)
	}

	now := time.Now()
	seedCards(db, model.TableResidentCards, []model.CardRegistration{
		// Approved 13 months ago: the status job should flag it for renewal.
		approvedCard(userId, resident.Id, unit.Id, now.AddDate(0, -13, 0)),
		// Approved a month ago: nothing due yet.
		approvedCard(userId, resident.Id, unit.Id, now.AddDate(0, -1, 0)),
	})
	seedCards(db, model.TableVehicleCards, []model.CardRegistration{
		approvedCard(userId, resident.Id, unit.Id, now.AddDate(0, -13, 0)),
		// Stale gateway session for the sweeper.
		{
			Id:               uuid.New(),
			UserId:           userId,
			ResidentId:       &resident.Id,
			UnitId:           &unit.Id,
			Status:           string(entity.CardStatusReadyForPayment),
			PaymentStatus:    string(entity.PaymentStatusLegacyVnpay),
			VnpayInitiatedAt: timePtr(now.Add(-2 * time.Hour)),
		},
	})
	seedCards(db, model.TableElevatorCards, []model.CardRegistration{
		// Pending payment that never completed.
		{
			Id:            uuid.New(),
			UserId:        userId,
			ResidentId:    &resident.Id,
			UnitId:        &unit.Id,
			Status:        string(entity.CardStatusReadyForPayment),
			PaymentStatus: string(entity.PaymentStatusPending),
		},
	})

	log.Printf("Success: Seeded user %s with resident %s in unit %s.", userId, resident.Id, unit.Id)
}

func approvedCard(userId, residentId uuid.UUID, unitId uuid.UUID, approvedAt time.Time) model.CardRegistration {
	return model.CardRegistration{
		Id:            uuid.New(),
		UserId:        userId,
		ResidentId:    &residentId,
		UnitId:        &unitId,
		Status:        string(entity.CardStatusApproved),
		PaymentStatus: string(entity.PaymentStatusPaid),
		ApprovedAt:    &approvedAt,
	}
}

func seedCards(db *gorm.DB, table string, cards []model.CardRegistration) {
	for i := range cards {
		if err := db.Table(table).Create(&cards[i]).Error; err != nil {
			log.Fatalf("Error: Failed to seed %s: %v", table, err)
		}
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

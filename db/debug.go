package db

import (
	"time"

	"github.com/thatsimonsguy/homenode/internal/model"
)

func ListArmEventsCLI(dbPath string, limit int) ([]model.ArmEvent, error) {
	dbConn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer dbConn.Close()
	return GetArmEvents(dbConn, limit)
}

func PruneArmEventsCLI(dbPath string, olderThan time.Duration) (int64, error) {
	dbConn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer dbConn.Close()
	return PruneArmEvents(dbConn, time.Now().Add(-olderThan))
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"loftonrealty/server/internal/models"
)

var (
	marketConfig *models.MarketConfig
	marketLock   sync.RWMutex
	marketPath   = "config/market_areas.json"
)

// LoadMarketConfig loads the market areas configuration from file
func LoadMarketConfig() error {
	marketLock.Lock()
	defer marketLock.Unlock()

	// Get absolute path to config file
	absPath, err := filepath.Abs(marketPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}

	// Read configuration file
	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}

	// Parse configuration
	var config models.MarketConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse config: %v", err)
	}

	marketConfig = &config
	return nil
}

// GetMarketAreas returns all configured market areas
func GetMarketAreas() []models.MarketArea {
	marketLock.RLock()
	defer marketLock.RUnlock()

	if marketConfig == nil {
		return nil
	}

	areas := make([]models.MarketArea, len(marketConfig.MarketAreas))
	for i, area := range marketConfig.MarketAreas {
		areas[i] = models.MarketArea{
			Name:   area.Name,
			Cities: area.Cities,
		}
	}
	return areas
}

// GetMarketAreaByName returns a specific market area by name
func GetMarketAreaByName(name string) *models.MarketArea {
	marketLock.RLock()
	defer marketLock.RUnlock()

	if marketConfig == nil {
		return nil
	}

	for _, area := range marketConfig.MarketAreas {
		if area.Name == name {
			return &models.MarketArea{
				Name:   area.Name,
				Cities: area.Cities,
			}
		}
	}
	return nil
}

package display

import (
	"fmt"
	"strings"

	"github.com/kjstillabower/weather-form/internal/models"
)

// Thresholds for FarmingAdvice, in °C and percent.
const (
	HotTemperature  = 28
	CoolTemperature = 18
	HumidPercent    = 75
)

// Farming tips, one line each.
const (
	TipRainPlant    = "Rainy season: Plant suitable crops and vegetables. Ensure good drainage."
	TipRainMonitor  = "Rainy season: Monitor crops for diseases common in wet conditions."
	TipDryHarvest   = "Sunny/dry season: Harvest mature crops. Irrigate efficiently, preferably in the evening or early morning."
	TipDryPests     = "Sunny/dry season: Implement pest control measures as needed."
	TipGeneral      = "General conditions: Maintain your farm. Follow your planting and harvesting schedule."
	TipHighHumidity = "High humidity: Be vigilant for fungal diseases."
	TipCoolWeather  = "Cool weather: Protect sensitive crops from potential cold damage."
)

// FarmingAdvice derives tips from current conditions. Wet descriptions take
// precedence over heat; humidity and cold add to whichever applies.
func FarmingAdvice(r models.WeatherResult) []string {
	desc := strings.ToLower(r.Description)
	wet := containsAny(desc, "rain", "drizzle", "thunderstorm")

	var tips []string
	switch {
	case wet:
		tips = append(tips, TipRainPlant, TipRainMonitor)
	case r.Temperature > HotTemperature || containsAny(desc, "sun", "clear"):
		tips = append(tips, TipDryHarvest, TipDryPests)
	default:
		tips = append(tips, TipGeneral)
	}
	if r.Humidity > HumidPercent {
		tips = append(tips, TipHighHumidity)
	}
	if r.Temperature < CoolTemperature && !wet {
		tips = append(tips, TipCoolWeather)
	}
	return tips
}

// FormatFarmingTips renders tips as a titled list.
func FormatFarmingTips(location string, tips []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Farming tips (%s):\n", location)
	for _, tip := range tips {
		fmt.Fprintf(&b, "- %s\n", tip)
	}
	return b.String()
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

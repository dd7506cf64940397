// Package reports — агрегаты для админских отчётов.
// Считаем по уже выбранным строкам, без SQL: объёмы здесь маленькие,
// зато инварианты отчёта проверяются обычными unit-тестами.
package reports

import (
	"math"

	"oneguard/internal/models"
)

type CityReport struct {
	City             string  `json:"city"`
	TotalClients     int     `json:"total_clients"`
	InternetInterest int     `json:"internet_interest"`
	TVInterest       int     `json:"tv_interest"`
	AverageRating    float64 `json:"average_rating"`
}

// Cities строит отчёт по городам в порядке следования cities.
// Города без клиентов в отчёт не попадают. Средний рейтинг — по
// ненулевым оценкам, округлён до двух знаков; 0, если оценок нет.
func Cities(cities []models.City, clients []models.ClientData) []CityReport {
	stats := make([]CityReport, 0, len(cities))

	for _, city := range cities {
		var (
			total          int
			internet       int
			tv             int
			ratingSum      int
			ratingsCounted int
		)

		for _, c := range clients {
			if c.BuildingObject.CityID != city.ID {
				continue
			}
			total++
			if models.ContainsService(c.InterestedServices, models.ServiceInternet) {
				internet++
			}
			if models.ContainsService(c.InterestedServices, models.ServiceTV) {
				tv++
			}
			if c.ProviderRating != nil {
				ratingSum += *c.ProviderRating
				ratingsCounted++
			}
		}

		if total == 0 {
			continue
		}

		var avg float64
		if ratingsCounted > 0 {
			avg = round2(float64(ratingSum) / float64(ratingsCounted))
		}

		stats = append(stats, CityReport{
			City:             city.Name,
			TotalClients:     total,
			InternetInterest: internet,
			TVInterest:       tv,
			AverageRating:    avg,
		})
	}

	return stats
}

type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

type UserStatistics struct {
	TotalUsers     int         `json:"total_users"`
	EngineersCount int         `json:"engineers_count"`
	AdminsCount    int         `json:"admins_count"`
	UsersByCity    []CityCount `json:"users_by_city"`
}

// Users — сводка по пользователям; разрез по городам идёт в порядке
// первого появления города в списке.
func Users(users []models.User) UserStatistics {
	stats := UserStatistics{UsersByCity: []CityCount{}}
	byCity := map[string]int{}

	for _, u := range users {
		stats.TotalUsers++
		switch u.Role {
		case models.RoleEngineer:
			stats.EngineersCount++
		case models.RoleAdmin:
			stats.AdminsCount++
		}

		if _, seen := byCity[u.City]; !seen {
			stats.UsersByCity = append(stats.UsersByCity, CityCount{City: u.City})
		}
		byCity[u.City]++
	}

	for i := range stats.UsersByCity {
		stats.UsersByCity[i].Count = byCity[stats.UsersByCity[i].City]
	}

	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package create_appointment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
)

const (
	// Количество случайных попыток до перехода к детерминированному зерну
	randomAllocationAttempts = 10

	hexDigits = "0123456789ABCDEF"
)

// allocateAppointmentID выделяет свободный публичный идентификатор записи
// Сначала до 10 равномерно случайных черновиков, каждый проверяется на коллизию
// Если все заняты (пространство 16M, на практике недостижимо) - детерминированное
// зерно от текущего Unix-времени с мутацией хвостовых символов до первого свободного
// Уникальный индекс в хранилище остается последней линией защиты от гонки
func (uc *UseCase) allocateAppointmentID(ctx context.Context) (string, error) {
	for i := 0; i < randomAllocationAttempts; i++ {
		candidate := randomHexID(domain.AppointmentIDLength)

		exists, err := uc.appointmentRepo.ExistsAppointmentID(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("%w: failed to check appointment id: %v", ErrInternal, err)
		}
		if !exists {
			return candidate, nil
		}
	}

	seed := timestampSeed(uc.timeProvider.Now().Unix())
	candidate := []byte(seed)

	// Мутируем все более длинный хвост зерна, пока не найдем свободный идентификатор
	for tail := 1; tail <= len(candidate); tail++ {
		for i := 0; i < randomAllocationAttempts; i++ {
			for j := len(candidate) - tail; j < len(candidate); j++ {
				candidate[j] = hexDigits[rand.Intn(len(hexDigits))]
			}

			exists, err := uc.appointmentRepo.ExistsAppointmentID(ctx, string(candidate))
			if err != nil {
				return "", fmt.Errorf("%w: failed to check appointment id: %v", ErrInternal, err)
			}
			if !exists {
				return string(candidate), nil
			}
		}
	}

	return "", fmt.Errorf("%w: exhausted appointment id allocation attempts", ErrInternal)
}

// randomHexID генерирует случайную строку из hex-символов в верхнем регистре
func randomHexID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = hexDigits[rand.Intn(len(hexDigits))]
	}
	return string(b)
}

// timestampSeed возвращает младшие 6 hex-цифр Unix-времени в верхнем регистре
func timestampSeed(unix int64) string {
	s := fmt.Sprintf("%012X", unix)
	return s[len(s)-domain.AppointmentIDLength:]
}

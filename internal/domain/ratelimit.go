package domain

import "time"

// Allow - окно в одно действие: отказ, если с lastAt прошло меньше minInterval.
// Второе значение - сколько ждать до следующей попытки.
// Нулевой lastAt означает, что действия еще не было.
func Allow(lastAt time.Time, minInterval time.Duration, now time.Time) (bool, time.Duration) {
	if lastAt.IsZero() {
		return true, 0
	}
	gap := now.Sub(lastAt)
	if gap < minInterval {
		return false, minInterval - gap
	}
	return true, 0
}

// Throttle - то же самое, но сразу сдвигает *lastAt при успехе
// и возвращает RateLimitError при отказе.
func Throttle(lastAt *time.Time, minInterval time.Duration, now time.Time, action string) error {
	ok, retry := Allow(*lastAt, minInterval, now)
	if !ok {
		return &RateLimitError{Action: action, RetryIn: retry}
	}
	*lastAt = now
	return nil
}

// Package timezone provides timezone and calendar-date utilities for the hotel.
//
// Usage Examples:
//
//  1. Current time in the hotel timezone:
//     now := timezone.Now()
//
//  2. Calendar dates (the unit of every booking):
//     d, err := timezone.ParseDate("2024-06-01")   // UTC midnight
//     today := timezone.NewClock().Today()         // hotel "today" as a calendar date
//
//  3. Pinning "today" in tests:
//     clock := timezone.FixedClock(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC))
//
// The timezone is configured via the APP_TIMEZONE environment variable and is
// initialized when the package is imported. Use IANA names such as "Asia/Kolkata".
package timezone

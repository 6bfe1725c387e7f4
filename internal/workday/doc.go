// Package workday implements the calendar gate for scheduled runs.
//
// The pipeline is triggered by cron daily, but the invoices in scope are only
// issued around the tenth working day of the month. The gate lets the cron
// entry run every day and exit early on all the others.
package workday

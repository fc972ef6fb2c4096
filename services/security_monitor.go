package services

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// Failed-login alerting thresholds
const (
	FailedLoginAlertThreshold = 10
	FailedLoginWindow         = 10 * time.Minute
	AlertCooldown             = time.Hour
	maxStoredAlerts           = 100
)

// SecurityEventMonitor aggregates failed logins per client IP. Account lockout
// protects a single user; the monitor notices one address probing many.
type SecurityEventMonitor struct {
	mu           sync.Mutex
	failedLogins map[string][]failedLogin // IP -> attempts inside the window
	alertedIPs   map[string]time.Time     // IP -> last alert time
	alerts       []SecurityAlert          // newest first
}

type failedLogin struct {
	at       time.Time
	username string
}

// SecurityAlert represents a triggered security alert
type SecurityAlert struct {
	Timestamp time.Time
	IP        string
	Usernames []string
	Reason    string
}

// Monitor is the process-wide instance used by the login handler
var Monitor = NewSecurityEventMonitor()

func NewSecurityEventMonitor() *SecurityEventMonitor {
	return &SecurityEventMonitor{
		failedLogins: make(map[string][]failedLogin),
		alertedIPs:   make(map[string]time.Time),
	}
}

// TrackFailedLogin records a failed login and raises an alert when one IP
// crosses the threshold inside the window. It reports whether an alert fired.
func (m *SecurityEventMonitor) TrackFailedLogin(ip, username string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	windowStart := now.Add(-FailedLoginWindow)
	attempts := m.failedLogins[ip][:0]
	for _, a := range m.failedLogins[ip] {
		if a.at.After(windowStart) {
			attempts = append(attempts, a)
		}
	}
	attempts = append(attempts, failedLogin{at: now, username: username})
	m.failedLogins[ip] = attempts

	if len(attempts) < FailedLoginAlertThreshold {
		return false
	}
	return m.triggerAlertLocked(ip, attempts, now)
}

// triggerAlertLocked records and logs an alert, at most once per cooldown per IP
func (m *SecurityEventMonitor) triggerAlertLocked(ip string, attempts []failedLogin, now time.Time) bool {
	if last, ok := m.alertedIPs[ip]; ok && now.Sub(last) < AlertCooldown {
		return false
	}
	m.alertedIPs[ip] = now

	seen := map[string]bool{}
	var usernames []string
	for _, a := range attempts {
		if a.username != "" && !seen[a.username] {
			seen[a.username] = true
			usernames = append(usernames, a.username)
		}
	}
	sort.Strings(usernames)

	alert := SecurityAlert{
		Timestamp: now,
		IP:        ip,
		Usernames: usernames,
		Reason:    fmt.Sprintf("%d failed logins in %s", len(attempts), FailedLoginWindow),
	}
	m.alerts = append([]SecurityAlert{alert}, m.alerts...)
	if len(m.alerts) > maxStoredAlerts {
		m.alerts = m.alerts[:maxStoredAlerts]
	}

	log.Printf("[SECURITY ALERT] %s from IP %s (accounts: %v)", alert.Reason, ip, usernames)
	return true
}

// GetRecentAlerts returns a copy of recent alerts, newest first
func (m *SecurityEventMonitor) GetRecentAlerts() []SecurityAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	alertsCopy := make([]SecurityAlert, len(m.alerts))
	copy(alertsCopy, m.alerts)
	return alertsCopy
}

// Prune drops attempts and cooldowns that can no longer matter.
// The scheduler calls it alongside session cleanup.
func (m *SecurityEventMonitor) Prune(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ip, attempts := range m.failedLogins {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1].at) > FailedLoginWindow {
			delete(m.failedLogins, ip)
		}
	}
	for ip, lastAlert := range m.alertedIPs {
		if now.Sub(lastAlert) > AlertCooldown {
			delete(m.alertedIPs, ip)
		}
	}
}

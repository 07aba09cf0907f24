package utils

// ClockLayout is the localized hour:minute display used on the status
// timeline, e.g. "2:47 PM".
const ClockLayout = "3:04 PM"

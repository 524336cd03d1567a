package stats

import "time"

type Stats struct {
	ServerCount       int   `json:"serverCount"`
	UserCount         int   `json:"userCount"`
	Uptime            int64 `json:"uptime"`
	CommandsToday     int   `json:"commandsToday"`
	MessagesProcessed int   `json:"messagesProcessed"`
	ActiveChannels    int   `json:"activeChannels"`
}

type ChartPoint struct {
	Date     string `json:"date"`
	Commands int    `json:"commands"`
	Messages int    `json:"messages"`
}

// Baseline is activity imported for a day before the dashboard started recording it.
type Baseline struct {
	Day      time.Time
	Commands int
	Messages int
}

// ChartDays is how many UTC days the chart covers, today included.
const ChartDays = 7

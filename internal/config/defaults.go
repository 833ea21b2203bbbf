package config

import "github.com/jgoulah/smarthome/internal/synth"

// DefaultNames is the user name pool used when the config does not list one
var DefaultNames = []string{
	"Zhang Wei", "Li Na", "Wang Lei", "Liu Min", "Chen Jie",
	"Yang Li", "Zhao Qiang", "Sun Ting", "Zhou Hua", "Wu Gang",
}

// DefaultCategories is the built-in device category table
var DefaultCategories = []Category{
	{
		Type:      "smart_light",
		Names:     []string{"Living Room Pendant", "Bedroom Lamp", "Kitchen Spotlight", "Hallway Motion Light", "Balcony Light"},
		Locations: []string{"living_room", "bedroom", "kitchen", "hallway", "balcony"},
		PowerMin:  5,
		PowerMax:  60,
		Pattern:   synth.EveningNight,
	},
	{
		Type:      "air_conditioner",
		Names:     []string{"Living Room AC", "Master Bedroom AC", "Guest Bedroom AC", "Study AC"},
		Locations: []string{"living_room", "master_bedroom", "guest_bedroom", "study"},
		PowerMin:  800,
		PowerMax:  2000,
		Pattern:   synth.Seasonal,
	},
	{
		Type:      "camera",
		Names:     []string{"Front Door Camera", "Living Room Camera", "Balcony Camera", "Garage Camera"},
		Locations: []string{"front_door", "living_room", "balcony", "garage"},
		PowerMin:  5,
		PowerMax:  15,
		Pattern:   synth.AlwaysOn,
	},
	{
		Type:      "door_lock",
		Names:     []string{"Front Door Lock", "Bedroom Door Lock"},
		Locations: []string{"front_door", "bedroom"},
		PowerMin:  2,
		PowerMax:  5,
		Pattern:   synth.Occasional,
	},
	{
		Type:      "temperature_sensor",
		Names:     []string{"Living Room Thermometer", "Bedroom Thermometer", "Kitchen Thermometer"},
		Locations: []string{"living_room", "bedroom", "kitchen"},
		PowerMin:  1,
		PowerMax:  3,
		Pattern:   synth.AlwaysOn,
	},
	{
		Type:      "air_purifier",
		Names:     []string{"Living Room Purifier", "Bedroom Purifier"},
		Locations: []string{"living_room", "bedroom"},
		PowerMin:  30,
		PowerMax:  80,
		Pattern:   synth.DayNight,
	},
	{
		Type:      "smart_plug",
		Names:     []string{"Living Room Plug", "Bedroom Plug", "Kitchen Plug"},
		Locations: []string{"living_room", "bedroom", "kitchen"},
		PowerMin:  2,
		PowerMax:  100, // depends on what is plugged in
		Pattern:   synth.DayNight,
	},
	{
		Type:      "curtain_motor",
		Names:     []string{"Living Room Curtain", "Bedroom Curtain"},
		Locations: []string{"living_room", "bedroom"},
		PowerMin:  15,
		PowerMax:  30,
		Pattern:   synth.MorningEvening,
	},
}

// DefaultSecurityEvents is the built-in security event catalogue
var DefaultSecurityEvents = []SecurityEventType{
	{Type: "stranger_detected", Severity: "medium", Devices: []string{"camera"}},
	{Type: "abnormal_door_open", Severity: "high", Devices: []string{"door_lock"}},
	{Type: "temperature_anomaly", Severity: "medium", Devices: []string{"temperature_sensor"}},
	{Type: "device_offline", Severity: "low", Devices: []string{"camera", "temperature_sensor", "smart_plug"}},
	{Type: "intrusion_alarm", Severity: "high", Devices: []string{"camera", "door_lock"}},
	{Type: "network_anomaly", Severity: "medium", Devices: []string{"camera", "door_lock", "temperature_sensor"}},
	{Type: "power_anomaly", Severity: "medium", Devices: []string{"smart_plug", "air_conditioner"}},
	{Type: "lock_battery_low", Severity: "low", Devices: []string{"door_lock"}},
	{Type: "motion_detected", Severity: "low", Devices: []string{"camera"}},
	{Type: "overheat", Severity: "high", Devices: []string{"temperature_sensor", "air_conditioner"}},
}

// DefaultFeedback is the built-in feedback catalogue
var DefaultFeedback = []FeedbackType{
	{
		Type:    "fault_report",
		Ratings: []int{1, 2, 3},
		Contents: []string{
			"Device keeps disconnecting and needs to be re-paired",
			"Response has become slow and laggy",
			"Device runs hot, worried about safety",
			"Night mode does not work",
			"App crashes often and cannot control the device",
			"Voice recognition is inaccurate",
		},
	},
	{
		Type:    "suggestion",
		Ratings: []int{3, 4, 5},
		Contents: []string{
			"Please add a timer feature",
			"The mobile app layout could be improved",
			"Would like voice control support",
			"Please add an energy saving mode",
			"Would like more automation scenes",
			"Please add a child lock",
		},
	},
	{
		Type:    "satisfaction",
		Ratings: []int{4, 5},
		Contents: []string{
			"Great build quality, pleasant to use",
			"Very smart and convenient",
			"Good value for money, would recommend",
			"Support was friendly and fixed my issue quickly",
			"Easy to install and operate",
			"Beautiful design, very happy with it",
		},
	},
	{
		Type:    "feature_request",
		Ratings: []int{3, 4},
		Contents: []string{
			"Support more smart scenes",
			"Add usage statistics",
			"Allow remote control",
			"Support third-party platform integration",
			"Add geofencing",
			"Support more device brands",
		},
	},
	{
		Type:    "performance",
		Ratings: []int{2, 3, 4, 5},
		Contents: []string{
			"Runs reliably, rarely has problems",
			"Energy usage is well controlled",
			"Response time could be faster",
			"Overall performance meets expectations",
			"Connection stability needs work",
			"Battery life is good",
		},
	},
}

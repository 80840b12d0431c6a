package service

// City holds a city's districts for the location picker.
type City struct {
	Name      string   `json:"name"`
	Districts []string `json:"districts"`
}

// Country groups the supported cities.
type Country struct {
	Name   string `json:"name"`
	Cities []City `json:"cities"`
}

// Locations is the static country/city/district catalog served to clients.
var Locations = []Country{
	{
		Name: "Kazakhstan",
		Cities: []City{
			{Name: "Almaty", Districts: []string{"Almaly", "Auezov", "Bostandyk", "Medeu", "Nauryzbay", "Turksib", "Zhetysu", "Alatau"}},
			{Name: "Astana", Districts: []string{"Almaty", "Baikonur", "Esil", "Saryarka", "Nura"}},
			{Name: "Shymkent", Districts: []string{"Abay", "Al-Farabi", "Enbekshi", "Karatau", "Turan"}},
			{Name: "Karaganda", Districts: []string{"Kazybek Bi", "Oktyabrsky"}},
			{Name: "Aktobe", Districts: []string{"Astana", "Almaty"}},
		},
	},
	{
		Name: "Kyrgyzstan",
		Cities: []City{
			{Name: "Bishkek", Districts: []string{"Leninsky", "Oktyabrsky", "Pervomaysky", "Sverdlovsky"}},
			{Name: "Osh", Districts: []string{}},
		},
	},
	{
		Name: "Uzbekistan",
		Cities: []City{
			{Name: "Tashkent", Districts: []string{"Bektemir", "Chilanzar", "Mirabad", "Mirzo Ulugbek", "Shaykhantaur", "Yunusabad", "Yakkasaray"}},
			{Name: "Samarkand", Districts: []string{}},
		},
	},
}

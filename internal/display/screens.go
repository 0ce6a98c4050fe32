package display

// Full-screen messages shown outside the panel loop. Each one clears the
// surface and presents it.

func drawCentered(s Surface, y int, f Font, text string) {
	w, _ := s.Size()
	s.DrawText(w/2-s.TextWidth(f, text)/2, y, f, text)
}

// ShowBoot lists the network addresses once the device is online.
func ShowBoot(s Surface, localIP, publicIP string) error {
	s.Clear()
	s.DrawText(0, 0, FontSmall, "Connected")
	s.DrawText(0, 12, FontSmall, "Local IP: "+localIP)
	s.DrawText(0, 24, FontSmall, "Public IP: "+publicIP)
	return s.Present()
}

func ShowSensorError(s Surface) error {
	s.Clear()
	s.DrawText(0, 0, FontSmall, "BME280 sensor error")
	return s.Present()
}

// ShowNotProvisioned tells the user to join the setup network.
func ShowNotProvisioned(s Surface, setupSSID string) error {
	s.Clear()
	w, _ := s.Size()
	s.DrawIcon(w/2-iconSize/2, 0, wifiMask)
	drawCentered(s, 26, FontLarge, setupSSID)
	drawCentered(s, 48, FontSmall, "Not provisioned")
	return s.Present()
}

func ShowFactoryReset(s Surface) error {
	s.Clear()
	drawCentered(s, 20, FontSmall, "Reset WiFi...")
	return s.Present()
}

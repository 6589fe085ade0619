package main

import "salon-booking-backend/cmd"

func main() {
	cmd.Run()
}

// keyflight-update checks for and installs new releases of the KeyFlight configurator.
package main

func main() {
	Execute()
}

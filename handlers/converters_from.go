package handlers

import "maxwellmaster/service"

func fromRegisterRequest(class string, req RegisterRequest) service.RegisterRequest {
	return service.RegisterRequest{
		Class:     class,
		ID:        req.ID,
		PrivateIP: req.PrivateIP,
		PublicIP:  req.PublicIP,
		HTTPPort:  req.HTTPPort,
		HTTPSPort: req.HTTPSPort,
		Domain:    req.Domain,
	}
}

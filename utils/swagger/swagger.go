package swagger

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

type SwaggerConfig struct {
	Title         string
	SwaggerDocURL string
	AuthURL       string
}

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui.css" />
  <style>
    body { margin: 0; background: #fafafa; }
    .login-bar { display: flex; gap: 8px; padding: 12px 20px; background: #1b1b1b; }
    .login-bar input { padding: 6px 10px; border-radius: 4px; border: 1px solid #555; }
    .login-bar button { padding: 6px 14px; border-radius: 4px; border: 0; background: #49cc90; color: #fff; cursor: pointer; }
    .login-bar span { color: #ddd; font-family: sans-serif; font-size: 13px; align-self: center; }
  </style>
</head>
<body>
  <div class="login-bar">
    <input id="login-email" type="email" placeholder="Email" />
    <input id="login-password" type="password" placeholder="Password" />
    <button id="login-button">Login</button>
    <span id="login-status"></span>
  </div>
  <div id="swagger-ui" data-doc-url="{{.SwaggerDocURL}}" data-auth-url="{{.AuthURL}}"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      const urls = document.getElementById("swagger-ui").dataset;
      window.ui = SwaggerUIBundle({
        url: urls.docUrl,
        dom_id: "#swagger-ui",
        deepLinking: true,
        persistAuthorization: true,
      });

      document.getElementById("login-button").onclick = async function () {
        const status = document.getElementById("login-status");
        const email = document.getElementById("login-email").value.trim();
        const password = document.getElementById("login-password").value;
        if (!email || !password) {
          status.textContent = "Email and password are required";
          return;
        }
        try {
          const response = await fetch(urls.authUrl, {
            method: "POST",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify({ email: email, password: password }),
          });
          const body = await response.json();
          if (!response.ok) {
            status.textContent = "Login failed: " + (body.error?.details || body.message);
            return;
          }
          window.ui.preauthorizeApiKey("BearerAuth", "Bearer " + body.data.access_token);
          status.textContent = "Logged in as " + body.data.user.role;
        } catch (err) {
          status.textContent = "Login failed: " + err.message;
        }
      };
    };
  </script>
</body>
</html>`

// ServeSwaggerUI serves the Swagger UI with a login bar that authorizes every call
func ServeSwaggerUI(config SwaggerConfig) gin.HandlerFunc {
	if config.Title == "" {
		config.Title = "API Documentation"
	}
	if config.SwaggerDocURL == "" {
		config.SwaggerDocURL = "/swagger/doc.json"
	}
	if config.AuthURL == "" {
		config.AuthURL = "/api/v1/auth/login"
	}

	tmpl := template.Must(template.New("swagger").Parse(swaggerHTML))

	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(c.Writer, config); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render Swagger UI"})
		}
	}
}

// ServeDoc serves the OpenAPI document registered with swag
func ServeDoc() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc()
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "API documentation is not registered"})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}
